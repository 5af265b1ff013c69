// Package desugar implements the desugaring rules (spec.md §4's component
// C4): pure functions turning IR method bodies/expressions into jstree nodes
// for the active output dialect.
package desugar

import (
	"github.com/scalajs/jsemitter/internal/ir"
)

// Queries is the minimal read-only surface of whole-program knowledge
// desugaring rules are allowed to consult (spec.md §4.2). It is implemented
// by the driver (C8), which borrows it down to C4/C5 for the scope of a
// single run without granting ownership (spec.md §9, "Cyclic reference
// emitter<->class-emitter").
type Queries interface {
	// IsInterface reports whether targetClassName names an Interface.
	IsInterface(targetClassName string) bool

	// LinkedClassByName resolves a class by encoded name within the current
	// unit.
	LinkedClassByName(name string) (*ir.LinkedClass, bool)

	// NeedsSubtypeArray reports whether the named class's instance test
	// must use a materialized subtype array rather than a comparison chain.
	NeedsSubtypeArray(name string) bool

	// UsesJSConstructorOpt reports whether targetClass is currently eligible
	// for the fused, constructor-optimized emission form, and records that
	// callerClass's (method, isStatic) consulted this fact (spec.md §4.2,
	// §4.5).
	UsesJSConstructorOpt(targetClass, callerClass, method string, isStatic bool) bool
}
