package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	s := New()
	assert.True(t, s.Toggle(3))
	assert.True(t, s.Has(3))
	assert.False(t, s.Toggle(3))
	assert.False(t, s.Has(3))
	assert.Equal(t, 0, s.Len())
}

func TestIDs_StoreOrder(t *testing.T) {
	s := New()
	for _, id := range []int{9, 2, 5} {
		s.Toggle(id)
	}
	assert.Equal(t, []int{2, 5, 9}, s.IDs())
}
