// Package classgen is the per-class generator (spec.md §4's component C5):
// it produces, for a single linked class, the constructor, method bodies,
// instance tests, type data, module accessor and exports appropriate to the
// active output dialect.
package classgen

import (
	radix "github.com/armon/go-radix"

	"github.com/scalajs/jsemitter/internal/ir"
)

// Index serves linkedClassByName (spec.md §4.2) from a radix tree keyed by
// encodedName; SortedNames walks the tree in lexicographic key order. The
// driver's ancestor-count/name class ordering does not use that walk: it
// sorts the classes itself (orderedClasses in internal/emitter).
type Index struct {
	tree *radix.Tree
}

// NewIndex builds an Index over unit's classes.
func NewIndex(unit *ir.LinkingUnit) *Index {
	tree := radix.New()
	for _, c := range unit.Classes {
		tree.Insert(c.EncodedName, c)
	}
	return &Index{tree: tree}
}

// ByName resolves a class by its encoded name.
func (idx *Index) ByName(name string) (*ir.LinkedClass, bool) {
	v, ok := idx.tree.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*ir.LinkedClass), true
}

// SortedNames returns every indexed class's encoded name in radix (hence
// lexicographic) order.
func (idx *Index) SortedNames() []string {
	var names []string
	idx.tree.Walk(func(s string, v interface{}) bool {
		names = append(names, s)
		return false
	})
	return names
}
