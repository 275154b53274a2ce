package match

// Hit is one entry of a result sequence.
type Hit struct {
	ID    int  // Stable item id
	Tier  Tier // Match-quality bucket
	Score int  // Fuzzy score; zero in tokenizing mode
}

// Result is an ordered sequence of hits. Positions are indexes into the
// sequence; ids refer back to the item store.
type Result struct {
	hits  []Hit
	index map[int]int
}

func newResult(hits []Hit) Result {
	index := make(map[int]int, len(hits))
	for pos, h := range hits {
		index[h.ID] = pos
	}
	return Result{hits: hits, index: index}
}

// Len returns the number of hits.
func (r Result) Len() int {
	return len(r.hits)
}

// Empty reports whether nothing matched.
func (r Result) Empty() bool {
	return len(r.hits) == 0
}

// At returns the hit at pos. pos must be in [0, Len()).
func (r Result) At(pos int) Hit {
	return r.hits[pos]
}

// Last returns the final position, or -1 when empty.
func (r Result) Last() int {
	return len(r.hits) - 1
}

// Position returns the position of the item id, or -1 if it did not match.
func (r Result) Position(id int) int {
	if pos, ok := r.index[id]; ok {
		return pos
	}
	return -1
}

// IDs returns the matched item ids in result order.
func (r Result) IDs() []int {
	ids := make([]int, len(r.hits))
	for i, h := range r.hits {
		ids[i] = h.ID
	}
	return ids
}
