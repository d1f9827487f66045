package script

import (
	"iter"

	"github.com/modforge/modforge/xmltree"
)

// Iter is the single-pass sequence protocol handed to scripts. The
// sequence is snapshotted when the producing call runs; each such call
// builds a fresh, independent Iter, and one Iter is exhausted after one
// traversal.
type Iter struct {
	items []any
	pos   int
}

func newIter(h handleState, seq iter.Seq[*xmltree.Node]) *Iter {
	it := &Iter{}
	for n := range seq {
		it.items = append(it.items, h.wrap(n))
	}
	return it
}

// Next returns the next handle, or nil once the sequence is exhausted.
func (it *Iter) Next() any {
	if it.pos >= len(it.items) {
		return nil
	}
	v := it.items[it.pos]
	it.pos++
	return v
}

// HasNext reports whether Next will produce another value.
func (it *Iter) HasNext() bool {
	return it.pos < len(it.items)
}

// Rest drains the remaining values, leaving the iterator exhausted. It is
// what scripts use with the sandbox's collection builtins.
func (it *Iter) Rest() []any {
	rest := it.items[it.pos:]
	it.pos = len(it.items)
	return rest
}

// Len reports the total sequence length, independent of position.
func (it *Iter) Len() int {
	return len(it.items)
}
