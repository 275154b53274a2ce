package item

// Store owns the candidate list. It only grows: items are appended with
// the next free id and are never removed or reordered.
type Store struct {
	items []Item
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the store contents with entries, assigning ids from 0.
func (s *Store) Load(entries []Entry) {
	s.items = make([]Item, 0, len(entries))
	s.Append(entries...)
}

// Append adds entries after the existing items and returns the new items.
func (s *Store) Append(entries ...Entry) []Item {
	start := len(s.items)
	for _, e := range entries {
		s.items = append(s.items, Item{
			ID:        len(s.items),
			Text:      e.Text,
			Secondary: e.Secondary,
			Priority:  e.Priority,
		})
	}
	return s.items[start:]
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// At returns the item with the given id.
func (s *Store) At(id int) (Item, bool) {
	if id < 0 || id >= len(s.items) {
		return Item{}, false
	}
	return s.items[id], true
}

// All returns the items in load order. Callers must not modify the slice.
func (s *Store) All() []Item {
	return s.items
}
