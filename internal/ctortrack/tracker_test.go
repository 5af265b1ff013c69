package ctortrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalajs/jsemitter/internal/ir"
)

func unitWithX(hasInstances bool) *ir.LinkingUnit {
	return &ir.LinkingUnit{Classes: []*ir.LinkedClass{
		{
			EncodedName:  "X",
			Kind:         ir.KindClass,
			HasInstances: hasInstances,
			MemberMethods: []ir.MethodDef{
				{Name: "init___", IsConstructor: true},
			},
		},
	}}
}

func TestDefaultCandidateRequiresSingleConstructor(t *testing.T) {
	c := &ir.LinkedClass{
		Kind:         ir.KindClass,
		HasInstances: true,
		MemberMethods: []ir.MethodDef{
			{IsConstructor: true},
			{IsConstructor: true},
		},
	}
	assert.False(t, DefaultCandidate(c), "two constructor methods must not be fusable")

	c.MemberMethods = c.MemberMethods[:1]
	assert.True(t, DefaultCandidate(c))

	c.HasInstances = false
	assert.False(t, DefaultCandidate(c))
}

// TestCtorOptInvalidationOnToggle exercises spec.md §8's S4 scenario: X is
// ctor-opt in run 1 (method Y.m queries it), then stops being ctor-opt in
// run 2 with identical IR versions; Y.m must be invalidated at beginRun.
func TestCtorOptInvalidationOnToggle(t *testing.T) {
	tr := New()

	var invalidated []CallerKey
	invalidate := func(caller, method string, static bool) {
		invalidated = append(invalidated, CallerKey{CallerClass: caller, Method: method, Static: static})
	}

	run1 := unitWithX(true)
	tr.BeginRun(run1, DefaultCandidate, invalidate)
	assert.Empty(t, invalidated, "first run has no history to invalidate")

	got := tr.UsesJSConstructorOpt("X", "Y", "m", false)
	assert.True(t, got, "X is ctor-opt in run 1")
	tr.EndRun()

	run2 := unitWithX(false)
	tr.BeginRun(run2, DefaultCandidate, invalidate)
	require.Len(t, invalidated, 1)
	assert.Equal(t, CallerKey{CallerClass: "Y", Method: "m", Static: false}, invalidated[0])

	got = tr.UsesJSConstructorOpt("X", "Y", "m", false)
	assert.False(t, got, "X is no longer ctor-opt in run 2")
}

func TestUnchangedMembershipInvalidatesNothing(t *testing.T) {
	tr := New()
	var invalidated []CallerKey
	invalidate := func(caller, method string, static bool) {
		invalidated = append(invalidated, CallerKey{CallerClass: caller, Method: method, Static: static})
	}

	unit := unitWithX(true)
	tr.BeginRun(unit, DefaultCandidate, invalidate)
	tr.UsesJSConstructorOpt("X", "Y", "m", false)
	tr.EndRun()

	tr.BeginRun(unit, DefaultCandidate, invalidate)
	assert.Empty(t, invalidated, "membership unchanged, nothing should invalidate")
}

func TestDroppedEntryIsNotReinvalidatedNextToggle(t *testing.T) {
	tr := New()
	var calls int
	invalidate := func(caller, method string, static bool) { calls++ }

	tr.BeginRun(unitWithX(true), DefaultCandidate, invalidate)
	tr.UsesJSConstructorOpt("X", "Y", "m", false)
	tr.EndRun()

	tr.BeginRun(unitWithX(false), DefaultCandidate, invalidate)
	tr.EndRun()
	assert.Equal(t, 1, calls)

	// X toggles back on; the dropped entry (no longer recorded) must not
	// fire invalidate again since nothing re-queried it in between.
	tr.BeginRun(unitWithX(true), DefaultCandidate, invalidate)
	assert.Equal(t, 1, calls)
}
