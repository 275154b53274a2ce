package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/tmenu/internal/config"
	"github.com/runger/tmenu/internal/history"
	"github.com/runger/tmenu/internal/item"
	tlog "github.com/runger/tmenu/internal/log"
	"github.com/runger/tmenu/internal/menu"
	"github.com/runger/tmenu/internal/session"
	"github.com/runger/tmenu/internal/source"
	"github.com/runger/tmenu/internal/tty"
)

// runMenu is the root command: read items, run the menu, print the result.
func runMenu(ctx context.Context, e *env, c *cobra.Command, o *options, args []string) error {
	cfg, paths, err := o.loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(c.Flags(), cfg, paths); err != nil {
		return err
	}
	if err := tty.CheckTERM(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, logCloser, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	sessionID := uuid.NewString()

	hist, err := history.Open(cfg.History.Backend, cfg.History.File, history.Options{
		Max:       cfg.History.Max,
		SessionID: sessionID,
		Redact:    cfg.History.Redact,
	})
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	past, err := hist.Load(ctx, cfg.History.Max)
	if err != nil {
		tlog.LogHistoryError(logger, "load", err)
	}

	srcOpts := source.Options{
		Separator: item.Separator{Delim: cfg.Match.Separator, Last: cfg.Match.SeparatorLast},
		Priority:  o.priority,
		Logger:    logger,
	}

	store := item.NewStore()
	var stream <-chan []item.Entry
	switch {
	case len(args) > 0:
		store.Load(source.FromStrings(args, srcOpts))
	case cfg.Menu.Stream:
		stream = source.Stream(ctx, e.stdin, srcOpts)
	default:
		entries, err := source.ReadAll(e.stdin, srcOpts)
		if err != nil {
			return err
		}
		store.Load(entries)
	}

	term, err := e.openTTY(ctx, cfg.Menu.TTYAttempts, time.Duration(cfg.Menu.TTYDelayMs)*time.Millisecond)
	if err != nil {
		return err
	}
	defer term.Close()

	sess := session.New(store, session.Options{
		Match:          cfg.MatchConfig(),
		Capacity:       cfg.Menu.MaxQueryBytes,
		Delims:         cfg.Menu.WordDelimiters,
		Rows:           cfg.Menu.Rows,
		Columns:        cfg.Menu.Columns,
		TextWidth:      menu.ItemCells,
		Reserve:        menu.Reserve(cfg.Menu.Prompt),
		RejectNoMatch:  cfg.Menu.RejectNoMatch,
		Instant:        cfg.Menu.Instant,
		PrefixComplete: cfg.Menu.PrefixComplete,
		MultiSelect:    cfg.Menu.MultiSelect,
		PrintIndex:     cfg.Menu.PrintIndex,
		Query:          o.query,
		Preselect:      o.preselect,
		History:        past,
		Logger:         logger,
	})
	model := menu.NewModel(sess, menu.Options{
		Prompt:    cfg.Menu.Prompt,
		Bottom:    cfg.Menu.Bottom,
		Items:     stream,
		Clipboard: e.clipboard,
		Logger:    logger,
	})

	tlog.LogStartup(logger, tlog.StartupInfo{
		Version:    Version,
		SessionID:  sessionID,
		ConfigPath: o.path(paths),
		History:    cfg.History.File,
		Items:      store.Len(),
		Stream:     stream != nil,
	})

	// An instant match on the initial query finishes before any drawing.
	final := model
	if !sess.Done() {
		final, err = e.runUI(model, term, cfg.Menu.Inline)
		if err != nil {
			logger.Error("menu failed", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
	}

	if final.IsCancelled() {
		tlog.LogOutcome(logger, "cancel", 0)
		return errCancelled
	}

	out := final.Output()
	for _, line := range out {
		fmt.Fprintf(e.stdout, "%s%s%s\n", o.printBefore, line, o.printAfter)
	}
	tlog.LogOutcome(logger, "commit", len(out))

	if !cfg.Menu.PrintIndex {
		for _, line := range out {
			if err := hist.Append(ctx, line); err != nil {
				tlog.LogHistoryError(logger, "append", err)
			}
		}
	}
	return nil
}

func openLog(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := tlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return tlog.Open(cfg.Log.File, level, false)
}

// runProgram runs the menu on the terminal t. Standard output carries the
// result, so colors are detected from the terminal itself.
func runProgram(m menu.Model, t *os.File, inline bool) (menu.Model, error) {
	lipgloss.SetColorProfile(termenv.NewOutput(t).ColorProfile())

	opts := []tea.ProgramOption{tea.WithInput(t), tea.WithOutput(t)}
	if !inline {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	fm, ok := final.(menu.Model)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return fm, nil
}
