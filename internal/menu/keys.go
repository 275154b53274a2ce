package menu

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/tmenu/internal/session"
)

// keyMap binds terminal keys to session events.
type keyMap struct {
	Cancel         key.Binding
	Commit         key.Binding
	CommitRaw      key.Binding
	Complete       key.Binding
	ToggleSelect   key.Binding
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	CursorLeft     key.Binding
	CursorRight    key.Binding
	WordLeft       key.Binding
	WordRight      key.Binding
	Home           key.Binding
	End            key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	DeleteBack     key.Binding
	DeleteForward  key.Binding
	DeleteWordBack key.Binding
	KillToEnd      key.Binding
	KillToStart    key.Binding
	HistoryPrev    key.Binding
	HistoryNext    key.Binding
	Clipboard      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Cancel:         key.NewBinding(key.WithKeys("esc", "ctrl+c")),
		Commit:         key.NewBinding(key.WithKeys("enter", "ctrl+j")),
		CommitRaw:      key.NewBinding(key.WithKeys("alt+enter")),
		Complete:       key.NewBinding(key.WithKeys("tab")),
		ToggleSelect:   key.NewBinding(key.WithKeys("ctrl+@", "ctrl+t")),
		Up:             key.NewBinding(key.WithKeys("up", "shift+tab")),
		Down:           key.NewBinding(key.WithKeys("down")),
		Left:           key.NewBinding(key.WithKeys("left", "ctrl+b")),
		Right:          key.NewBinding(key.WithKeys("right", "ctrl+f")),
		CursorLeft:     key.NewBinding(key.WithKeys("shift+left")),
		CursorRight:    key.NewBinding(key.WithKeys("shift+right")),
		WordLeft:       key.NewBinding(key.WithKeys("alt+b", "ctrl+left")),
		WordRight:      key.NewBinding(key.WithKeys("alt+f", "ctrl+right")),
		Home:           key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:            key.NewBinding(key.WithKeys("end", "ctrl+e")),
		PageUp:         key.NewBinding(key.WithKeys("pgup", "alt+v")),
		PageDown:       key.NewBinding(key.WithKeys("pgdown", "ctrl+v")),
		DeleteBack:     key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		DeleteForward:  key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		DeleteWordBack: key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
		KillToEnd:      key.NewBinding(key.WithKeys("ctrl+k")),
		KillToStart:    key.NewBinding(key.WithKeys("ctrl+u")),
		HistoryPrev:    key.NewBinding(key.WithKeys("ctrl+p")),
		HistoryNext:    key.NewBinding(key.WithKeys("ctrl+n")),
		Clipboard:      key.NewBinding(key.WithKeys("ctrl+y")),
	}
}

// event maps a key press to a session event. Bindings are checked before
// text so that alt-modified runes reach their bindings.
func (k keyMap) event(msg tea.KeyMsg) (session.Event, bool) {
	bindings := []struct {
		binding key.Binding
		kind    session.Kind
	}{
		{k.Cancel, session.KindCancel},
		{k.CommitRaw, session.KindCommitRaw},
		{k.Commit, session.KindCommit},
		{k.Complete, session.KindComplete},
		{k.ToggleSelect, session.KindToggleSelect},
		{k.Up, session.KindUp},
		{k.Down, session.KindDown},
		{k.CursorLeft, session.KindCursorLeft},
		{k.CursorRight, session.KindCursorRight},
		{k.WordLeft, session.KindWordLeft},
		{k.WordRight, session.KindWordRight},
		{k.Left, session.KindLeft},
		{k.Right, session.KindRight},
		{k.Home, session.KindHome},
		{k.End, session.KindEnd},
		{k.PageUp, session.KindPageUp},
		{k.PageDown, session.KindPageDown},
		{k.DeleteBack, session.KindDeleteBack},
		{k.DeleteForward, session.KindDeleteForward},
		{k.DeleteWordBack, session.KindDeleteWordBack},
		{k.KillToEnd, session.KindKillToEnd},
		{k.KillToStart, session.KindKillToStart},
		{k.HistoryPrev, session.KindHistoryPrev},
		{k.HistoryNext, session.KindHistoryNext},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return session.Key(b.kind), true
		}
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return session.Event{}, false
		}
		if msg.Paste {
			return session.Paste(string(msg.Runes)), true
		}
		return session.Insert(string(msg.Runes)), true
	case tea.KeySpace:
		return session.Insert(" "), true
	}
	return session.Event{}, false
}
