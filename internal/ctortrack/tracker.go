// Package ctortrack implements the ctor-opt dependency tracker (spec.md
// §4's component C7): it records which call sites consulted a class's
// "is this constructor-optimizable" property and invalidates them when
// that property flips between runs.
package ctortrack

import (
	"github.com/scalajs/jsemitter/internal/ir"
)

// CallerKey identifies one call site that consulted a target class's
// ctor-opt status: the caller class, the method name (static iff Static),
// as in the tracker table of spec.md §3.
type CallerKey struct {
	CallerClass string
	Method      string
	Static      bool
}

// InvalidateFunc is the bridging callback C8 hands to Tracker so it can
// reach into C6 without Tracker owning the cache (spec.md §9, "Cyclic
// reference emitter<->class-emitter").
type InvalidateFunc func(callerClass, method string, isStatic bool)

// CandidatePredicate decides whether a single class is eligible for the
// JS-constructor optimization this run. spec.md leaves the exact
// eligibility rule to "a predicate on the linking unit" (§3, "Ctor-opt
// set") without naming it further; DefaultCandidate is this
// implementation's resolution, recorded in DESIGN.md.
type CandidatePredicate func(c *ir.LinkedClass) bool

// DefaultCandidate is eligible exactly when a class can allocate and
// fully initialize in one `new` call: it is a concrete ScalaJS-defined
// class with instances and declares exactly one constructor-bearing
// member method (fusing two constructors would be ambiguous).
func DefaultCandidate(c *ir.LinkedClass) bool {
	if !c.HasInstances || !c.Kind.IsAnyScalaJSDefinedClass() {
		return false
	}
	n := 0
	for _, m := range c.MemberMethods {
		if m.IsConstructor {
			n++
		}
	}
	return n == 1
}

// Tracker is the run-scoped dependency table. It is owned by the driver
// (C8) and borrowed down to C4/C5 via the UsesJSConstructorOpt method for
// the duration of one run (spec.md §9).
type Tracker struct {
	current map[string]bool
	last    map[string]bool
	table   map[string]map[CallerKey]struct{}
}

// New returns an empty Tracker with no run history.
func New() *Tracker {
	return &Tracker{
		current: map[string]bool{},
		last:    map[string]bool{},
		table:   map[string]map[CallerKey]struct{}{},
	}
}

// BeginRun computes this run's ctor-opt set from unit using candidate,
// diffs it against the previous run's set, and invalidates every recorded
// call site that depended on a class whose membership changed (spec.md
// §4.5, steps 1-3).
func (t *Tracker) BeginRun(unit *ir.LinkingUnit, candidate CandidatePredicate, invalidate InvalidateFunc) {
	current := map[string]bool{}
	for _, c := range unit.Classes {
		if candidate(c) {
			current[c.EncodedName] = true
		}
	}

	for name := range symmetricDifference(t.last, current) {
		callers, ok := t.table[name]
		if !ok {
			continue
		}
		for key := range callers {
			invalidate(key.CallerClass, key.Method, key.Static)
		}
		delete(t.table, name)
	}

	t.current = current
}

// EndRun promotes this run's ctor-opt set to "last", per spec.md §4.5.
func (t *Tracker) EndRun() {
	t.last = t.current
}

// UsesJSConstructorOpt records that (callerClass, method, isStatic)
// consulted targetClass's ctor-opt status this run, and returns whether
// targetClass is currently a member of the ctor-opt set (spec.md §4.5,
// last paragraph).
func (t *Tracker) UsesJSConstructorOpt(targetClass, callerClass, method string, isStatic bool) bool {
	callers, ok := t.table[targetClass]
	if !ok {
		callers = map[CallerKey]struct{}{}
		t.table[targetClass] = callers
	}
	callers[CallerKey{CallerClass: callerClass, Method: method, Static: isStatic}] = struct{}{}
	return t.current[targetClass]
}

// symmetricDifference returns the set of keys present in exactly one of a
// or b.
func symmetricDifference(a, b map[string]bool) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range a {
		if !b[k] {
			out[k] = struct{}{}
		}
	}
	for k := range b {
		if !a[k] {
			out[k] = struct{}{}
		}
	}
	return out
}
