// Package selection tracks items marked in multi-select mode.
package selection

import "slices"

// Set holds stable item ids. It is unaffected by re-matching.
type Set struct {
	ids map[int]struct{}
}

// New creates an empty set.
func New() *Set {
	return &Set{ids: make(map[int]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Set) Toggle(id int) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports whether id is selected.
func (s *Set) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order, which is store order.
func (s *Set) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
