package emitter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalajs/jsemitter/internal/emitconfig"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/log"
	"github.com/scalajs/jsemitter/internal/metrics"
	"github.com/scalajs/jsemitter/internal/outmode"
)

func objectClass() *ir.LinkedClass {
	return &ir.LinkedClass{
		EncodedName:        "O",
		Kind:                ir.KindClass,
		Ancestors:           []string{"O"},
		HasInstances:        true,
		HasRuntimeTypeInfo:  true,
		Version:             "v1",
	}
}

func fooClass() *ir.LinkedClass {
	return &ir.LinkedClass{
		EncodedName: "Foo",
		Kind:        ir.KindClass,
		SuperClass:  "O",
		Ancestors:   []string{"Foo", "O"},
		MemberMethods: []ir.MethodDef{
			{Name: "init___", IsConstructor: true, Body: ir.Return{Value: ir.This{}}},
			{Name: "bar__I", Body: ir.Literal{Value: int32(1)}},
		},
		HasInstances:       true,
		HasInstanceTests:   true,
		HasRuntimeTypeInfo: true,
		Version:            "v1",
	}
}

// S1 — an empty linking unit produces no errors and no class output.
func TestEmitAllEmptyUnit(t *testing.T) {
	d, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	b := jstree.NewStringBuilder()
	unit := &ir.LinkingUnit{}
	require.NoError(t, d.EmitAll(unit, b, log.Noop()))

	assert.Contains(t, b.String(), "'use strict';")
	stats := d.Stats()
	assert.Equal(t, 0, stats.ClassesReused+stats.ClassesInvalidated)
}

// S2 — a single class in ES5-Isolated emits inside the IIFE wrapper with
// the mode's prelude/postlude, and reports both classes (O and Foo) as
// freshly generated.
func TestEmitAllSingleClassES5Isolated(t *testing.T) {
	cfg := emitconfig.NewConfig()
	cfg.OutputMode = outmode.ES5Isolated
	d, err := New(cfg, "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), fooClass()}}
	b := jstree.NewStringBuilder()
	require.NoError(t, d.EmitAll(unit, b, log.Noop()))

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "(function(){\n'use strict';\n"))
	assert.True(t, strings.HasSuffix(out, "}).call(this);\n"))
	assert.Contains(t, out, "c_Foo = function")

	stats := d.Stats()
	assert.Equal(t, 2, stats.ClassesInvalidated)
	assert.Equal(t, 0, stats.ClassesReused)
}

// Ordering: supers must be emitted before subclasses (ancestor-count
// ascending, then name), so Foo's constructor text must follow Object's
// type-data text in the rendered output.
func TestClassOrderingSupersBeforeSubclasses(t *testing.T) {
	d, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{fooClass(), objectClass()}}
	b := jstree.NewStringBuilder()
	require.NoError(t, d.Emit(unit, b, log.Noop()))

	out := b.String()
	objIdx := strings.Index(out, "d_O =")
	fooIdx := strings.Index(out, "c_Foo = function")
	require.NotEqual(t, -1, objIdx)
	require.NotEqual(t, -1, fooIdx)
	assert.Less(t, objIdx, fooIdx)
}

// S5 — a module class's fatal checked-behavior path renders the
// sjsr_UndefinedBehaviorError branch used to detect re-entrant init.
func TestModuleAccessorFatalBehaviorRendersUndefinedBehaviorError(t *testing.T) {
	cfg := emitconfig.NewConfig()
	cfg.Semantics.ModuleInit = emitconfig.Fatal
	d, err := New(cfg, "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	mod := &ir.LinkedClass{
		EncodedName:  "App$",
		OriginalName: "com.example.App",
		Kind:         ir.KindModuleClass,
		SuperClass:   "O",
		Ancestors:    []string{"App$", "O"},
		MemberMethods: []ir.MethodDef{
			{Name: "init___", IsConstructor: true, Body: ir.Return{Value: ir.This{}}},
		},
		HasInstances:       true,
		HasRuntimeTypeInfo: true,
		Version:            "v1",
	}
	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), mod}}
	b := jstree.NewStringBuilder()
	require.NoError(t, d.EmitAll(unit, b, log.Noop()))

	assert.Contains(t, b.String(), "throw new sjsr_UndefinedBehaviorError")
}

// InvalidInput: a JS class missing its literal "constructor" exported
// member aborts the whole run before any output is appended.
func TestEmitAbortsOnMissingJSClassConstructor(t *testing.T) {
	d, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	broken := &ir.LinkedClass{
		EncodedName: "Broken",
		Kind:        ir.KindJSClass,
		SuperClass:  "O",
		Ancestors:   []string{"Broken", "O"},
	}
	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), broken}}
	b := jstree.NewStringBuilder()
	err = d.Emit(unit, b, log.Noop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-input")
	assert.Empty(t, b.String())
}

// S6 — strong-mode splice order: every marker is replaced by the right
// phase's content and appears between the surrounding literal lines in
// order; THE END marker line itself is dropped from the output.
func TestEmitStrongModeSpliceOrder(t *testing.T) {
	core := strings.Join([]string{
		"HEADER",
		markerDeclareTypeData,
		markerDeclareModules,
		markerIsAndAs,
		markerClasses,
		markerCreateTypeData,
		markerExports,
		markerTheEnd,
		"FOOTER",
	}, "\n")

	cfg := emitconfig.NewConfig()
	cfg.OutputMode = outmode.ES6Strong
	d, err := New(cfg, core, log.Noop(), metrics.Noop())
	require.NoError(t, err)

	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), fooClass()}}
	b := jstree.NewStringBuilder()
	require.NoError(t, d.Emit(unit, b, log.Noop()))

	out := b.String()
	assert.NotContains(t, out, markerTheEnd)

	headerIdx := strings.Index(out, "HEADER")
	dIdx := strings.Index(out, "var d_O;")
	isIdx := strings.Index(out, "is_Foo")
	classIdx := strings.Index(out, "class c_Foo")
	typeDataIdx := strings.Index(out, "ClassData[")
	footerIdx := strings.Index(out, "FOOTER")

	require.NotEqual(t, -1, headerIdx)
	require.NotEqual(t, -1, dIdx)
	require.NotEqual(t, -1, isIdx)
	require.NotEqual(t, -1, classIdx)
	require.NotEqual(t, -1, typeDataIdx)
	require.NotEqual(t, -1, footerIdx)

	assert.Less(t, headerIdx, dIdx)
	assert.Less(t, dIdx, isIdx)
	assert.Less(t, isIdx, classIdx)
	assert.Less(t, classIdx, typeDataIdx)
	assert.Less(t, typeDataIdx, footerIdx)
}

// A strong-mode Driver refuses construction without core-library text,
// since there is nothing to splice into.
func TestNewRejectsStrongModeWithoutCoreLibrary(t *testing.T) {
	cfg := emitconfig.NewConfig()
	cfg.OutputMode = outmode.ES6Strong
	_, err := New(cfg, "   ", log.Noop(), metrics.Noop())
	assert.Error(t, err)
}

// spec.md §8's determinism properties (#4, #6): two independent Drivers
// fed byte-identical input produce byte-identical output, and re-running
// the same Driver on an unchanged unit reproduces the first run exactly —
// neither map iteration order nor cache state may leak into the rendered
// text.
func TestEmitIsDeterministicAcrossDriversAndReruns(t *testing.T) {
	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), fooClass()}}

	render := func(d *Driver) string {
		b := jstree.NewStringBuilder()
		require.NoError(t, d.EmitAll(unit, b, log.Noop()))
		return b.String()
	}

	d1, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)
	d2, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	out1 := render(d1)
	out2 := render(d2)
	if diff := cmp.Diff(out1, out2); diff != "" {
		t.Fatalf("same unit on two independent Drivers diverged (-first +second):\n%s", diff)
	}

	rerun := render(d1)
	if diff := cmp.Diff(out1, rerun); diff != "" {
		t.Fatalf("re-running the same Driver on an unchanged unit diverged (-first +rerun):\n%s", diff)
	}
}

// S4 — ctor-opt invalidation across two runs: class X is ctor-opt
// eligible on run 1, so Y.m's `new X(...)` desugars to the fused form and
// records a dependency on X's status. On run 2, X declares a second
// constructor method (so DefaultCandidate no longer counts it) with every
// class's Version held unchanged. X leaving the ctor-opt set must
// invalidate Y.m's MethodCache entry and force it to recompute — while
// every ClassCache, including Y's and X's own, still counts as reused
// because no class's Version changed (spec.md §8, S4: "classesReused
// still counts Y's ClassCache as reused").
func TestCtorOptInvalidationAcrossRuns(t *testing.T) {
	d, err := New(emitconfig.NewConfig(), "", log.Noop(), metrics.Noop())
	require.NoError(t, err)

	newX := func(ctorCount int) *ir.LinkedClass {
		x := &ir.LinkedClass{
			EncodedName: "X",
			Kind:        ir.KindClass,
			SuperClass:  "O",
			Ancestors:   []string{"X", "O"},
			MemberMethods: []ir.MethodDef{
				{Name: "init___", IsConstructor: true, Body: ir.Return{Value: ir.This{}}},
			},
			HasInstances:       true,
			HasRuntimeTypeInfo: true,
			Version:            "v1",
		}
		if ctorCount == 2 {
			x.MemberMethods = append(x.MemberMethods, ir.MethodDef{
				Name: "init___I", IsConstructor: true,
				Params: []ir.Param{{Name: "n"}}, Body: ir.Return{Value: ir.This{}},
			})
		}
		return x
	}
	y := &ir.LinkedClass{
		EncodedName: "Y",
		Kind:        ir.KindClass,
		SuperClass:  "O",
		Ancestors:   []string{"Y", "O"},
		MemberMethods: []ir.MethodDef{
			{Name: "init___", IsConstructor: true, Body: ir.Return{Value: ir.This{}}},
			{Name: "m", Body: ir.Return{Value: ir.New{Class: "X"}}},
		},
		HasInstances:       true,
		HasRuntimeTypeInfo: true,
		Version:            "v1",
	}

	unit1 := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), newX(1), y}}
	b1 := jstree.NewStringBuilder()
	require.NoError(t, d.Emit(unit1, b1, log.Noop()))
	assert.NotContains(t, b1.String(), "init___()", "X is ctor-opt eligible on run 1, so Y.m fuses the `new` instead of calling init___ separately")
	statsAfterRun1 := d.Stats()
	assert.Equal(t, 3, statsAfterRun1.ClassesInvalidated, "every class is fresh on the first run")

	unit2 := &ir.LinkingUnit{Classes: []*ir.LinkedClass{objectClass(), newX(2), y}}
	b2 := jstree.NewStringBuilder()
	require.NoError(t, d.Emit(unit2, b2, log.Noop()))
	assert.Contains(t, b2.String(), "init___()", "X left the ctor-opt set, so run 2 falls back to the unfused allocate+init form")

	stats := d.Stats()
	assert.Equal(t, 3, stats.ClassesReused, "no class's Version changed between runs: every ClassCache, including Y's, still counts as reused")
	assert.Equal(t, 0, stats.ClassesInvalidated)
	assert.Greater(t, stats.MethodsInvalidated, 0, "Y.m's dependency on X's ctor-opt status must force at least one recompute")
}
