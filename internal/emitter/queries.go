package emitter

import (
	"github.com/scalajs/jsemitter/internal/classgen"
	"github.com/scalajs/jsemitter/internal/ctortrack"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/tagengine"
)

// runQueries bridges the three run-scoped collaborators (C5's index, C3's
// tag table, C7's tracker) into the single desugar.Queries surface C4/C5
// are allowed to consult (spec.md §4.2, §9 "Cyclic reference
// emitter<->class-emitter"). It is constructed fresh at the top of every
// Emit and never escapes the run.
type runQueries struct {
	index   *classgen.Index
	tags    *tagengine.Table
	tracker *ctortrack.Tracker
}

func (q *runQueries) IsInterface(targetClassName string) bool {
	c, ok := q.index.ByName(targetClassName)
	return ok && c.Kind.IsInterface()
}

func (q *runQueries) LinkedClassByName(name string) (*ir.LinkedClass, bool) {
	return q.index.ByName(name)
}

func (q *runQueries) NeedsSubtypeArray(name string) bool {
	return q.tags.NeedsSubtypeArray(name)
}

func (q *runQueries) UsesJSConstructorOpt(targetClass, callerClass, method string, isStatic bool) bool {
	return q.tracker.UsesJSConstructorOpt(targetClass, callerClass, method, isStatic)
}
