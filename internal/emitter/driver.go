// Package emitter is the emitter driver (spec.md §4's component C8): it
// orders classes, drives C3-C7 across a run, and assembles their output
// per the active output-mode dialect, including strong mode's marker-line
// splice (spec.md §4.6). It is the one component every external caller
// constructs directly; the root package re-exports its stable API
// verbatim (spec.md §6).
package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/scalajs/jsemitter/internal/classgen"
	"github.com/scalajs/jsemitter/internal/ctortrack"
	"github.com/scalajs/jsemitter/internal/emitcache"
	"github.com/scalajs/jsemitter/internal/emitconfig"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/log"
	"github.com/scalajs/jsemitter/internal/metrics"
	"github.com/scalajs/jsemitter/internal/outmode"
	"github.com/scalajs/jsemitter/internal/tagengine"
)

// strong-mode marker lines, in the fixed order spec.md §4.6 specifies.
const (
	markerDeclareTypeData = "///INSERT DECLARE TYPE DATA HERE///"
	markerDeclareModules  = "///INSERT DECLARE MODULES HERE///"
	markerIsAndAs         = "///INSERT IS AND AS FUNCTIONS HERE///"
	markerClasses         = "///INSERT CLASSES HERE///"
	markerCreateTypeData  = "///INSERT CREATE TYPE DATA HERE///"
	markerExports         = "///INSERT EXPORTS HERE///"
	markerTheEnd          = "///THE END///"
)

// Driver is the single-owner engine value of spec.md §9 ("Mutable-global
// caches -> encapsulated state"): one Driver's caches and tracker are never
// shared with another. It mirrors the teacher's internal/service.Manager
// shape (resourceLock sync.RWMutex, logger, stats, constructor) adapted to
// a single-threaded, non-suspending component (spec.md §5) that therefore
// needs no lock of its own.
type Driver struct {
	mode        outmode.Mode
	semantics   emitconfig.Semantics
	coreLibrary string // strong mode's pre-rendered splice target; unused otherwise

	cache   *emitcache.Engine
	tracker *ctortrack.Tracker

	log   log.Modular
	stats metrics.Type

	lastStats emitcache.Stats
}

// New returns a Driver for cfg. coreLibrary is the pre-rendered strong-mode
// core-library text carrying the seven literal markers (spec.md §4.6); it
// is ignored for every other output mode and may be empty.
func New(cfg emitconfig.Config, coreLibrary string, logger log.Modular, stats metrics.Type) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("emitter: %w", err)
	}
	if logger == nil {
		logger = log.Noop()
	}
	if stats == nil {
		stats = metrics.Noop()
	}
	if outmode.Registry[cfg.OutputMode].IsStrong && strings.TrimSpace(coreLibrary) == "" {
		return nil, fmt.Errorf("emitter: mode %s requires a non-empty core-library text", outmode.Registry[cfg.OutputMode].Name)
	}
	return &Driver{
		mode:        cfg.OutputMode,
		semantics:   cfg.Semantics,
		coreLibrary: coreLibrary,
		cache:       emitcache.NewEngine(128, logger, stats),
		tracker:     ctortrack.New(),
		log:         logger,
		stats:       stats,
	}, nil
}

// Stats returns the run statistics from the most recently completed Emit
// (spec.md §5, "reported once at endRun"; SPEC_FULL.md §4's `Stats()`
// accessor).
func (d *Driver) Stats() emitcache.Stats { return d.lastStats }

// EmitPrelude writes the active mode's exact prelude text (spec.md §6).
func (d *Driver) EmitPrelude(builder jstree.Builder, logger log.Modular) error {
	for _, line := range outmode.Registry[d.mode].Prelude() {
		if err := builder.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// EmitPostlude writes the active mode's exact postlude text (spec.md §6).
func (d *Driver) EmitPostlude(builder jstree.Builder, logger log.Modular) error {
	for _, line := range outmode.Registry[d.mode].Postlude() {
		if err := builder.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// EmitCustomHeader appends text verbatim, split on newlines, ahead of
// everything else a caller writes (spec.md §6, "line-split literal
// append").
func (d *Driver) EmitCustomHeader(text string, builder jstree.Builder) error {
	return writeLines(builder, text)
}

// EmitCustomFooter appends text verbatim, split on newlines.
func (d *Driver) EmitCustomFooter(text string, builder jstree.Builder) error {
	return writeLines(builder, text)
}

func writeLines(builder jstree.Builder, text string) error {
	for _, line := range strings.Split(text, "\n") {
		if err := builder.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// EmitAll is prelude + Emit + postlude (spec.md §6, "convenience").
func (d *Driver) EmitAll(unit *ir.LinkingUnit, builder jstree.Builder, logger log.Modular) error {
	if err := d.EmitPrelude(builder, logger); err != nil {
		return err
	}
	if err := d.Emit(unit, builder, logger); err != nil {
		return err
	}
	return d.EmitPostlude(builder, logger)
}

// Emit runs one full beginRun/endRun bracket: it validates unit, computes
// this run's tag table and ctor-opt set, generates every class's pieces in
// the order spec.md §5 specifies, and reports run statistics at the end.
// Re-entering Emit before a previous call on the same Driver returns is
// undefined (spec.md §5); nothing here guards against it, by design.
func (d *Driver) Emit(unit *ir.LinkingUnit, builder jstree.Builder, logger log.Modular) error {
	if logger == nil {
		logger = d.log
	}

	if errs := ir.Validate(unit); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("emitter: %d invalid-input violation(s) found, aborting run before any output: %s", len(errs), strings.Join(msgs, "; "))
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("emitter: generating run id: %w", err)
	}
	runLog := logger.WithFields(map[string]interface{}{"run_id": runID.String()})

	index := classgen.NewIndex(unit)

	tags, err := tagengine.Build(unit, ir.Definitions.ReservedTags, tagengine.DefaultNextTag(ir.Definitions.ReservedTags))
	if err != nil {
		return fmt.Errorf("emitter: building tag table: %w", err)
	}

	d.tracker.BeginRun(unit, ctortrack.DefaultCandidate, func(callerClass, method string, isStatic bool) {
		c, ok := index.ByName(callerClass)
		if !ok {
			return
		}
		d.cache.ClassCache(c.Ancestors).InvalidateMethod(method, isStatic)
	})
	d.cache.BeginRun()

	q := &runQueries{index: index, tags: tags, tracker: d.tracker}
	classes := orderedClasses(unit)

	var emitErr error
	if outmode.Registry[d.mode].IsStrong {
		emitErr = d.emitStrong(classes, tags, q, builder)
	} else {
		emitErr = d.emitFlat(classes, tags, q, builder)
	}

	d.tracker.EndRun()
	if emitErr != nil {
		// spec.md §7's propagation policy: no partial output, caches left
		// pre-run ("endRun is not called on the failure path"). The tracker
		// already promoted above is harmless on its own (it only changes
		// what the *next* beginRun diffs against), but the cache engine's
		// endRun is intentionally skipped here so stale retention bookkeeping
		// from this aborted run never takes effect.
		return emitErr
	}

	d.lastStats = d.cache.EndRun()
	runLog.Infof("emit run complete: classes reused=%d invalidated=%d, methods reused=%d invalidated=%d",
		d.lastStats.ClassesReused, d.lastStats.ClassesInvalidated, d.lastStats.MethodsReused, d.lastStats.MethodsInvalidated)
	return nil
}

// orderedClasses sorts unit's classes by (len(Ancestors) ascending,
// EncodedName ascending), spec.md §4.3's class-ordering tie-break.
func orderedClasses(unit *ir.LinkingUnit) []*ir.LinkedClass {
	out := make([]*ir.LinkedClass, len(unit.Classes))
	copy(out, unit.Classes)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Ancestors) != len(out[j].Ancestors) {
			return len(out[i].Ancestors) < len(out[j].Ancestors)
		}
		return out[i].EncodedName < out[j].EncodedName
	})
	return out
}

// emitFlat is the non-strong-mode single emission phase (spec.md §5,
// "For non-strong modes there is a single class-emission phase").
func (d *Driver) emitFlat(classes []*ir.LinkedClass, tags *tagengine.Table, q *runQueries, builder jstree.Builder) error {
	for _, c := range classes {
		nodes, err := classgen.Generate(c, tags, d.mode, d.semantics, q, d.cache)
		if err != nil {
			return fmt.Errorf("emitter: generating class %s: %w", c.EncodedName, err)
		}
		for _, n := range nodes {
			if err := builder.Append(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitStrong performs spec.md §4.6's marker splice. classgen.Lookup is
// called exactly once per class up front so the per-phase functions below
// share one (ClassCache, DesugaredClassCache) handle per class instead of
// re-resolving it at every marker — otherwise a class visited across six
// separate marker passes would count as six class-cache lookups instead of
// one (spec.md §4.4's lookup protocol is defined per class, not per piece).
//
// The module-accessor function has no marker of its own in spec.md §5's
// strong-mode ordering list ("type-data declarations, ... module
// declarations, ... is/as functions, ... classes, ... initClass calls, ...
// exports"). This implementation emits it directly after its class's
// `var n_C;` forward declaration, under the "declare modules" marker: the
// accessor is the one piece a module class needs before any other class's
// static initializer can safely reference it, the same reason the forward
// declaration itself is hoisted there. Recorded as a design decision in
// DESIGN.md.
func (d *Driver) emitStrong(classes []*ir.LinkedClass, tags *tagengine.Table, q *runQueries, builder jstree.Builder) error {
	type handle struct {
		cc  *emitcache.ClassCache
		dcc *emitcache.DesugaredClassCache
	}
	handles := make(map[string]handle, len(classes))
	for _, c := range classes {
		cc, dcc := classgen.Lookup(c, d.cache)
		handles[c.EncodedName] = handle{cc: cc, dcc: dcc}
	}

	emitDeclareTypeData := func() error {
		for _, c := range classes {
			if !c.HasRuntimeTypeInfo {
				continue
			}
			if err := builder.Append(classgen.DeclareTypeData(c)); err != nil {
				return err
			}
		}
		return nil
	}

	emitDeclareModules := func() error {
		for _, c := range classes {
			if !c.Kind.HasModuleAccessor() {
				continue
			}
			if err := builder.Append(classgen.DeclareModule(c)); err != nil {
				return err
			}
			h := handles[c.EncodedName]
			node, has, err := classgen.ModuleAccessor(c, d.semantics.ModuleInit, h.dcc)
			if err != nil {
				return fmt.Errorf("emitter: module accessor for %s: %w", c.EncodedName, err)
			}
			if has {
				if err := builder.Append(node); err != nil {
					return err
				}
			}
		}
		return nil
	}

	emitIsAndAs := func() error {
		for _, c := range classes {
			h := handles[c.EncodedName]
			instTests, err := classgen.InstanceTests(c, tags, h.dcc)
			if err != nil {
				return fmt.Errorf("emitter: instance tests for %s: %w", c.EncodedName, err)
			}
			for _, n := range instTests {
				if err := builder.Append(n); err != nil {
					return err
				}
			}
			arrTests, err := classgen.ArrayInstanceTests(c, tags)
			if err != nil {
				return fmt.Errorf("emitter: array instance tests for %s: %w", c.EncodedName, err)
			}
			for _, n := range arrTests {
				if err := builder.Append(n); err != nil {
					return err
				}
			}
		}
		return nil
	}

	emitClasses := func() error {
		for _, c := range classes {
			h := handles[c.EncodedName]
			nodes, err := classgen.ClassBody(c, d.mode, q, h.cc, h.dcc, d.cache)
			if err != nil {
				return fmt.Errorf("emitter: class body for %s: %w", c.EncodedName, err)
			}
			for _, n := range nodes {
				if err := builder.Append(n); err != nil {
					return err
				}
			}
		}
		return nil
	}

	emitCreateTypeData := func() error {
		for _, c := range classes {
			h := handles[c.EncodedName]
			nodes, err := classgen.TypeData(c, tags, d.mode, h.dcc)
			if err != nil {
				return fmt.Errorf("emitter: type data for %s: %w", c.EncodedName, err)
			}
			for _, n := range nodes {
				if err := builder.Append(n); err != nil {
					return err
				}
			}
		}
		return nil
	}

	emitExports := func() error {
		for _, c := range classes {
			h := handles[c.EncodedName]
			nodes, err := classgen.Exports(c, d.mode, h.dcc)
			if err != nil {
				return fmt.Errorf("emitter: exports for %s: %w", c.EncodedName, err)
			}
			for _, n := range nodes {
				if err := builder.Append(n); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, line := range strings.Split(d.coreLibrary, "\n") {
		var phase func() error
		switch line {
		case markerDeclareTypeData:
			phase = emitDeclareTypeData
		case markerDeclareModules:
			phase = emitDeclareModules
		case markerIsAndAs:
			phase = emitIsAndAs
		case markerClasses:
			phase = emitClasses
		case markerCreateTypeData:
			phase = emitCreateTypeData
		case markerExports:
			phase = emitExports
		case markerTheEnd:
			// Consumed: the line is not emitted (spec.md §8, S6).
			continue
		default:
			if err := builder.WriteLine(line); err != nil {
				return err
			}
			continue
		}
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}
