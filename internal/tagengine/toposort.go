package tagengine

import (
	"fmt"

	"github.com/quipo/dependencysolver"
	"github.com/scalajs/jsemitter/internal/ir"
)

// TopologicalOrder returns the unit's classes ordered so that every class
// appears after its super class. Build calls it up front as its cycle check
// (spec.md §8, property #7's ordering guarantee): the preorder walk that
// assigns tags has no well-defined behavior on a cyclic inheritance graph,
// and "no topological order exists" is precisely the cyclic case.
func TopologicalOrder(unit *ir.LinkingUnit) ([]string, error) {
	known := unit.ByEncodedName()

	entries := make([]dependencysolver.Entry, 0, len(unit.Classes))
	for _, c := range unit.Classes {
		var deps []string
		// A super class outside the unit (an orphan root in Build's terms)
		// contributes no dependency edge; it can never be resolved here, so
		// treating it as one would make every orphan look unresolvable.
		if c.SuperClass != "" {
			if _, ok := known[c.SuperClass]; ok {
				deps = []string{c.SuperClass}
			}
		}
		entries = append(entries, dependencysolver.Entry{ID: c.EncodedName, Dependencies: deps})
	}

	resolved := dependencysolver.Resolve(entries)
	order := make([]string, 0, len(resolved))
	for _, e := range resolved {
		order = append(order, e.ID)
	}
	if len(order) != len(unit.Classes) {
		return nil, fmt.Errorf("tagengine: dependency graph did not resolve cleanly (got %d of %d classes, possible cycle)", len(order), len(unit.Classes))
	}
	return order, nil
}
