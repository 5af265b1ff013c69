package emitcache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/log"
	"github.com/scalajs/jsemitter/internal/metrics"
)

func newTestEngine() *Engine {
	return NewEngine(8, log.Noop(), metrics.Noop())
}

func TestAncestorKeyOrderSensitive(t *testing.T) {
	a := AncestorKey([]string{"Object", "Foo"})
	b := AncestorKey([]string{"Foo", "Object"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, AncestorKey([]string{"Object", "Foo"}))
}

func TestDesugaredSlotFillsOnce(t *testing.T) {
	var s Slot
	calls := 0
	producer := func() (jstree.Node, error) {
		calls++
		return jstree.Ident{Name: "x"}, nil
	}
	_, err := s.GetOrElseUpdate(producer)
	require.NoError(t, err)
	_, err = s.GetOrElseUpdate(producer)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	s.Invalidate()
	_, err = s.GetOrElseUpdate(producer)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMethodCacheVersionGating(t *testing.T) {
	var m MethodCache
	calls := 0
	producer := func() (jstree.Node, error) {
		calls++
		return jstree.Lit{Value: calls}, nil
	}

	_, reused, err := m.GetOrElseUpdate("v1", producer)
	require.NoError(t, err)
	assert.False(t, reused)

	_, reused, err = m.GetOrElseUpdate("v1", producer)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, 1, calls)

	_, reused, err = m.GetOrElseUpdate("v2", producer)
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, 2, calls)
}

func TestMethodCacheEmptyVersionNeverMatches(t *testing.T) {
	var m MethodCache
	calls := 0
	producer := func() (jstree.Node, error) {
		calls++
		return jstree.Lit{Value: calls}, nil
	}
	_, reused, err := m.GetOrElseUpdate("", producer)
	require.NoError(t, err)
	assert.False(t, reused)
	_, reused, err = m.GetOrElseUpdate("", producer)
	require.NoError(t, err)
	assert.False(t, reused, "empty version must never match, forcing invalidation")
	assert.Equal(t, 2, calls)
}

func TestMethodCacheProducerError(t *testing.T) {
	var m MethodCache
	_, _, err := m.GetOrElseUpdate("v1", func() (jstree.Node, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
}

func TestClassCacheDesugaredLookupProtocol(t *testing.T) {
	cc := newClassCache()

	_, reused := cc.Desugared("v1")
	assert.False(t, reused, "first lookup must always be a fresh allocation")

	_, reused = cc.Desugared("v1")
	assert.True(t, reused)

	_, reused = cc.Desugared("v2")
	assert.False(t, reused, "version change must drop the cache")
}

func TestClassCacheRetentionLifecycle(t *testing.T) {
	cc := newClassCache()
	cc.startRun()
	cc.Desugared("v1")
	mc := cc.Method("foo")
	mc.StartRun()
	_, _, _ = mc.GetOrElseUpdate("v1", func() (jstree.Node, error) { return jstree.Skip{}, nil })

	retained := cc.cleanAfterRun()
	assert.True(t, retained)
	assert.Contains(t, cc.methods, "foo")

	// Next run: nothing touches this class cache at all.
	cc.startRun()
	retained = cc.cleanAfterRun()
	assert.False(t, retained, "a class cache untouched for a full run must not be retained")
}

func TestEngineClassCacheIsSharedByAncestorKey(t *testing.T) {
	e := newTestEngine()
	a := e.ClassCache([]string{"Object", "Foo"})
	b := e.ClassCache([]string{"Object", "Foo"})
	assert.Same(t, a, b)
}

func TestEngineEndRunDropsUnusedClasses(t *testing.T) {
	e := newTestEngine()
	e.BeginRun()
	cc := e.ClassCache([]string{"Object", "Foo"})
	_, reused := cc.Desugared("v1")
	e.RecordClassLookup("Foo", reused)
	stats := e.EndRun()
	assert.Equal(t, 1, stats.ClassesInvalidated)
	assert.Len(t, e.DumpCacheState(), 1)

	// A run that never touches "Foo" again must drop it.
	e.BeginRun()
	stats = e.EndRun()
	assert.Equal(t, 0, stats.ClassesReused)
	assert.Len(t, e.DumpCacheState(), 0)
}

func TestInvalidateMethodRoutesExportSentinels(t *testing.T) {
	cc := newClassCache()
	cc.Desugared("v1")
	cc.desugared.Constructor.GetOrElseUpdate(func() (jstree.Node, error) { return jstree.Skip{}, nil })
	assert.True(t, cc.desugared.Constructor.Filled())

	cc.InvalidateMethod("ConstructorExportDef", false)
	assert.False(t, cc.desugared.Constructor.Filled())
}

func TestRecentlyGeneratedRing(t *testing.T) {
	e := newTestEngine()
	e.NoteGenerated("Foo")
	e.NoteGenerated("Bar")
	names := e.RecentlyGenerated()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "Foo")
	assert.Contains(t, names, "Bar")
}
