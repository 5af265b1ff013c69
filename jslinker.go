// Package jslinker is the public façade over the emitter driver (spec.md
// §6's stable contract): a thin re-export of internal/emitter.Driver so
// callers get one import instead of reaching into internal/. It mirrors
// the teacher's service/service.go Type/New(opts...) facade, minus the
// plugin-registration surface that package has no equivalent of here.
package jslinker

import (
	"github.com/scalajs/jsemitter/internal/emitcache"
	"github.com/scalajs/jsemitter/internal/emitconfig"
	"github.com/scalajs/jsemitter/internal/emitter"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/log"
	"github.com/scalajs/jsemitter/internal/metrics"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// Re-exported so callers can build a Config/Mode/Semantics/LinkingUnit
// without importing internal/ packages directly.
type (
	Config        = emitconfig.Config
	Semantics     = emitconfig.Semantics
	CheckedBehavior = emitconfig.CheckedBehavior
	Mode          = outmode.Mode
	LinkingUnit   = ir.LinkingUnit
	LinkedClass   = ir.LinkedClass
	Builder       = jstree.Builder
	Logger        = log.Modular
	Stats         = emitcache.Stats
)

// Output modes (spec.md §1).
const (
	ES5Global   = outmode.ES5Global
	ES5Isolated = outmode.ES5Isolated
	ES6         = outmode.ES6
	ES6Strong   = outmode.ES6Strong
)

// Module-initializer checked-behavior modes (spec.md §7).
const (
	Unchecked = emitconfig.Unchecked
	Compliant = emitconfig.Compliant
	Fatal     = emitconfig.Fatal
)

// NewConfig returns the spec-mandated default Config: ES5-Global output,
// Unchecked module-init semantics (spec.md §9).
func NewConfig() Config { return emitconfig.NewConfig() }

// NewLogger returns a Modular logger backed by logrus at Info level.
func NewLogger() Logger { return log.New() }

// NewMetrics returns a Type backed by a private prometheus registry.
func NewMetrics() metrics.Type { return metrics.New() }

// Emitter is the stable driver contract spec.md §6 names. One Emitter owns
// its caches exclusively for its lifetime (spec.md §5); it is not safe for
// concurrent use, matching the single-threaded, non-suspending model §5
// describes.
type Emitter struct {
	driver *emitter.Driver
}

// New constructs an Emitter for cfg. coreLibrary is the pre-rendered
// strong-mode core-library text carrying the seven §4.6 markers; pass ""
// for any other output mode.
func New(cfg Config, coreLibrary string, logger Logger, stats metrics.Type) (*Emitter, error) {
	d, err := emitter.New(cfg, coreLibrary, logger, stats)
	if err != nil {
		return nil, err
	}
	return &Emitter{driver: d}, nil
}

// EmitAll is prelude + Emit + postlude (spec.md §6).
func (e *Emitter) EmitAll(unit *LinkingUnit, builder Builder, logger Logger) error {
	return e.driver.EmitAll(unit, builder, logger)
}

// Emit runs one full beginRun/endRun bracket over unit, appending every
// generated tree to builder (spec.md §6).
func (e *Emitter) Emit(unit *LinkingUnit, builder Builder, logger Logger) error {
	return e.driver.Emit(unit, builder, logger)
}

// EmitPrelude writes the active mode's exact prelude text (spec.md §6).
func (e *Emitter) EmitPrelude(builder Builder, logger Logger) error {
	return e.driver.EmitPrelude(builder, logger)
}

// EmitPostlude writes the active mode's exact postlude text (spec.md §6).
func (e *Emitter) EmitPostlude(builder Builder, logger Logger) error {
	return e.driver.EmitPostlude(builder, logger)
}

// EmitCustomHeader appends text verbatim, split on newlines, ahead of
// everything else written to builder (spec.md §6).
func (e *Emitter) EmitCustomHeader(text string, builder Builder) error {
	return e.driver.EmitCustomHeader(text, builder)
}

// EmitCustomFooter appends text verbatim, split on newlines (spec.md §6).
func (e *Emitter) EmitCustomFooter(text string, builder Builder) error {
	return e.driver.EmitCustomFooter(text, builder)
}

// Stats returns the most recently completed run's statistics
// (SPEC_FULL.md §4's `Stats()` accessor).
func (e *Emitter) Stats() Stats { return e.driver.Stats() }

// NewStringBuilder returns an in-memory Builder, useful for tests and
// callers that don't need source-map-aware output.
func NewStringBuilder() *jstree.StringBuilder { return jstree.NewStringBuilder() }
