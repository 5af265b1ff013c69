// Package tagengine implements the subtype-tag engine (spec.md §4's
// component C3): a deterministic preorder numbering of the classes in a
// linking unit, and the per-class subtype interval lists derived from it.
package tagengine

import (
	"fmt"
	"sort"

	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
)

// Interval is an inclusive, closed tag range [Lo, Hi].
type Interval struct {
	Lo, Hi int32
}

// Table is the computed result of Build: a tag for every class in the unit,
// and the merged subtype interval list per class.
type Table struct {
	tags       map[string]int32
	intervals  map[string][]Interval
	needsArray map[string]bool
}

// Tag returns the assigned tag for an encoded class name.
func (t *Table) Tag(encodedName string) (int32, bool) {
	v, ok := t.tags[encodedName]
	return v, ok
}

// SubtypeIntervals returns the sorted, maximally-merged interval list
// covering the tags of C's descendants (including C itself).
func (t *Table) SubtypeIntervals(encodedName string) []Interval {
	return t.intervals[encodedName]
}

// NeedsSubtypeArray reports whether C's interval list is large enough that
// the emitter should materialize a subtype bitmap/array instead of emitting
// a disjunction of comparisons (spec.md §4.1).
func (t *Table) NeedsSubtypeArray(encodedName string) bool {
	return t.needsArray[encodedName]
}

//------------------------------------------------------------------------------

// DefaultNextTag returns the conventional starting point for non-reserved
// tags: one past the highest reserved tag (spec.md §4.1 step 2). Callers
// with a wider reserved range (e.g. the full hijacked-primitive table) may
// instead pass an explicit, larger starting tag to Build.
func DefaultNextTag(reserved map[string]int32) int32 {
	var max int32 = -1
	for _, v := range reserved {
		if v > max {
			max = v
		}
	}
	return max + 1
}

// Build computes the tag table for unit, given the fixed reserved-tag table
// (hijacked primitive boxes and the root) and the first tag value available
// to non-reserved classes. Use DefaultNextTag(reserved) for the conventional
// baseline, or an explicit value when the real reserved range is wider than
// what `reserved` enumerates (spec.md §8 scenario S3).
func Build(unit *ir.LinkingUnit, reserved map[string]int32, nextTag int32) (*Table, error) {
	byName := unit.ByEncodedName()

	childrenMap := map[string][]*ir.LinkedClass{}
	var roots, orphans []*ir.LinkedClass
	for _, c := range unit.Classes {
		if c.SuperClass == "" {
			roots = append(roots, c)
			continue
		}
		if _, ok := byName[c.SuperClass]; !ok {
			orphans = append(orphans, c)
			continue
		}
		childrenMap[c.SuperClass] = append(childrenMap[c.SuperClass], c)
	}

	// TopologicalOrder's dependencysolver-backed resolution is the real
	// cycle check: Build needs every class reachable in superclass-before-
	// subclass order before the preorder walk below can assign tags at all,
	// and a cycle is exactly the case where no such order exists.
	if _, err := TopologicalOrder(unit); err != nil {
		return nil, fmt.Errorf("tagengine: %w", err)
	}

	queue := make([]*ir.LinkedClass, 0, len(roots)+len(orphans))
	queue = append(queue, roots...)
	queue = append(queue, orphans...)

	tags := make(map[string]int32, len(unit.Classes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, seen := tags[cur.EncodedName]; seen {
			return nil, fmt.Errorf("tagengine: class %q visited more than once", cur.EncodedName)
		}

		if rtag, ok := reserved[cur.EncodedName]; ok {
			tags[cur.EncodedName] = rtag
		} else {
			tags[cur.EncodedName] = nextTag
			nextTag++
		}

		children := childrenMap[cur.EncodedName]
		if len(children) > 0 {
			prefixed := make([]*ir.LinkedClass, 0, len(children)+len(queue))
			prefixed = append(prefixed, children...)
			prefixed = append(prefixed, queue...)
			queue = prefixed
		}
	}

	if len(tags) != len(unit.Classes) {
		return nil, fmt.Errorf("tagengine: assigned %d tags for %d classes; inheritance graph is not fully reachable from roots/orphans", len(tags), len(unit.Classes))
	}

	subtypeTags := map[string][]int32{}
	for _, d := range unit.Classes {
		dTag, ok := tags[d.EncodedName]
		if !ok {
			return nil, fmt.Errorf("tagengine: class %q has no tag", d.EncodedName)
		}
		for _, ancestor := range d.Ancestors {
			subtypeTags[ancestor] = append(subtypeTags[ancestor], dTag)
		}
	}

	intervals := make(map[string][]Interval, len(subtypeTags))
	needsArray := make(map[string]bool, len(subtypeTags))
	for name, ts := range subtypeTags {
		ivs := mergeIntervals(ts)
		intervals[name] = ivs
		needsArray[name] = nComparisons(ivs) > 5
	}

	return &Table{tags: tags, intervals: intervals, needsArray: needsArray}, nil
}

func mergeIntervals(tags []int32) []Interval {
	sorted := append([]int32(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []Interval
	for _, t := range sorted {
		if n := len(out); n > 0 && out[n-1].Hi+1 == t {
			out[n-1].Hi = t
			continue
		}
		if n := len(out); n > 0 && out[n-1].Hi >= t {
			// duplicate tag; already covered
			continue
		}
		out = append(out, Interval{Lo: t, Hi: t})
	}
	return out
}

func nComparisons(ivs []Interval) int {
	n := 0
	for _, iv := range ivs {
		if iv.Lo == iv.Hi {
			n++
		} else {
			n += 2
		}
	}
	return n
}

//------------------------------------------------------------------------------

// IntervalsTest returns a JS expression equivalent to `tagExpr ∈
// subtypeSet(encodedName)` (spec.md §4.1's IntervalsTest contract). When
// NeedsSubtypeArray is true the check indexes into the materialized subtype
// array under ScalaJS.Is; otherwise it is a disjunction of equality/range
// comparisons.
func (t *Table) IntervalsTest(encodedName string, tagExpr jstree.Node) (jstree.Node, error) {
	ivs, ok := t.intervals[encodedName]
	if !ok || len(ivs) == 0 {
		return jstree.Lit{Value: false}, nil
	}

	if t.needsArray[encodedName] {
		target := jstree.MemberAccess{
			Target:   jstree.Ident{Name: "ScalaJS.Is"},
			Property: jstree.Ident{Name: encodedName},
		}
		return jstree.MemberAccess{Target: target, Property: tagExpr, Computed: true}, nil
	}

	var expr jstree.Node
	for _, iv := range ivs {
		var clause jstree.Node
		if iv.Lo == iv.Hi {
			clause = jstree.BinOp{Op: "===", Left: tagExpr, Right: jstree.Lit{Value: int64(iv.Lo)}}
		} else {
			clause = jstree.BinOp{
				Op:   "&&",
				Left: jstree.BinOp{Op: ">=", Left: tagExpr, Right: jstree.Lit{Value: int64(iv.Lo)}},
				Right: jstree.BinOp{
					Op: "<=", Left: tagExpr, Right: jstree.Lit{Value: int64(iv.Hi)},
				},
			}
		}
		if expr == nil {
			expr = clause
		} else {
			expr = jstree.BinOp{Op: "||", Left: expr, Right: clause}
		}
	}
	return expr, nil
}
