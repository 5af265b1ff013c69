package emitcache

import (
	"strings"

	"github.com/OneOfOne/xxhash"
	lru "github.com/hashicorp/golang-lru"

	"github.com/scalajs/jsemitter/internal/log"
	"github.com/scalajs/jsemitter/internal/metrics"
)

// ancestorSeparator must not appear in an encoded class name; it joins an
// ancestor list into one string before hashing so that order is part of
// the hash input (spec.md §9, "Order-significant maps").
const ancestorSeparator = "\x1f"

// AncestorKey derives the stable map key for a class's ancestor list.
// Ancestor lists are cache-key material and must be compared element-wise
// in order (spec.md §9); hashing the joined sequence with xxhash gives a
// map[uint64]* friendly key without a custom slice-keyed map type.
func AncestorKey(ancestors []string) uint64 {
	return xxhash.ChecksumString64S(strings.Join(ancestors, ancestorSeparator), 0)
}

// Stats is the run-statistics snapshot spec.md §5 requires the driver to
// report once at endRun.
type Stats struct {
	ClassesReused      int
	ClassesInvalidated int
	MethodsReused      int
	MethodsInvalidated int
}

// Engine is the single-owner (spec.md §9) cache table
// for one emitter instance's lifetime. It owns every ClassCache, keyed by
// AncestorKey, plus a bounded diagnostic ring of recently generated class
// names surfaced by DumpCacheState.
type Engine struct {
	classes map[uint64]*ClassCache
	recent  *lru.Cache
	log     log.Modular
	stats   metrics.Type
	running Stats

	mClassesReused      metrics.StatCounter
	mClassesInvalidated metrics.StatCounter
	mMethodsReused      metrics.StatCounter
	mMethodsInvalidated metrics.StatCounter
}

// NewEngine returns an empty Engine. recentSize bounds the diagnostic ring
// (github.com/hashicorp/golang-lru); it has no bearing on cache
// correctness, only on how much DumpCacheState can show (SPEC_FULL.md §3).
func NewEngine(recentSize int, logger log.Modular, stats metrics.Type) *Engine {
	if recentSize <= 0 {
		recentSize = 64
	}
	ring, _ := lru.New(recentSize)
	return &Engine{
		classes:             map[uint64]*ClassCache{},
		recent:              ring,
		log:                 logger,
		stats:               stats,
		mClassesReused:      stats.GetCounter("classes.reused"),
		mClassesInvalidated: stats.GetCounter("classes.invalidated"),
		mMethodsReused:      stats.GetCounter("methods.reused"),
		mMethodsInvalidated: stats.GetCounter("methods.invalidated"),
	}
}

// ClassCache returns the ClassCache for the given ancestor list, creating
// it (lazily, per spec.md §3's "created lazily keyed by ancestor list") if
// this is its first reference.
func (e *Engine) ClassCache(ancestors []string) *ClassCache {
	key := AncestorKey(ancestors)
	cc, ok := e.classes[key]
	if !ok {
		cc = newClassCache()
		e.classes[key] = cc
	}
	return cc
}

// NoteGenerated records encodedName in the diagnostic "recently generated
// classes" ring (SPEC_FULL.md §3); it never influences retention.
func (e *Engine) NoteGenerated(encodedName string) {
	if e.recent != nil {
		e.recent.Add(encodedName, struct{}{})
	}
}

// RecordClassLookup updates reuse/invalidation counters and driver logging
// for a single ClassCache.Desugared call; callers pass the reused bool that
// call returned.
func (e *Engine) RecordClassLookup(encodedName string, reused bool) {
	if reused {
		e.mClassesReused.Incr(1)
		e.running.ClassesReused++
	} else {
		e.mClassesInvalidated.Incr(1)
		e.running.ClassesInvalidated++
		e.log.Debugf("emitcache: class %s cache dropped (version changed)", encodedName)
	}
}

// RecordMethodLookup updates reuse/invalidation counters for a single
// MethodCache.GetOrElseUpdate call.
func (e *Engine) RecordMethodLookup(reused bool) {
	if reused {
		e.mMethodsReused.Incr(1)
		e.running.MethodsReused++
	} else {
		e.mMethodsInvalidated.Incr(1)
		e.running.MethodsInvalidated++
	}
}

// BeginRun clears the used flags of every retained cache and resets the
// running statistics ahead of a new run.
func (e *Engine) BeginRun() {
	e.running = Stats{}
	for _, cc := range e.classes {
		cc.startRun()
	}
}

// EndRun drops every ClassCache (and its sub-caches) that went unused this
// run, per the retention rule of spec.md §4.4, and returns this run's
// statistics (spec.md §5, "reported once at endRun").
func (e *Engine) EndRun() Stats {
	for key, cc := range e.classes {
		if !cc.cleanAfterRun() {
			delete(e.classes, key)
		}
	}
	return e.running
}

// CacheSnapshot is one retained ClassCache's debug view.
type CacheSnapshot struct {
	AncestorKey    uint64
	HasVersion     bool
	Version        string
	MethodNames    []string
	StaticNames    []string
}

// DumpCacheState returns a read-only snapshot of every retained ClassCache,
// for tests validating the lifecycle rules of spec.md §3
// (SPEC_FULL.md §4).
func (e *Engine) DumpCacheState() []CacheSnapshot {
	out := make([]CacheSnapshot, 0, len(e.classes))
	for key, cc := range e.classes {
		snap := CacheSnapshot{
			AncestorKey: key,
			HasVersion:  cc.hasVersion,
			Version:     cc.version,
		}
		for name := range cc.methods {
			snap.MethodNames = append(snap.MethodNames, name)
		}
		for name := range cc.statics {
			snap.StaticNames = append(snap.StaticNames, name)
		}
		out = append(out, snap)
	}
	return out
}

// RecentlyGenerated returns the diagnostic ring's current class names, most
// recently added last-seen order is not guaranteed (golang-lru does not
// expose it); this is a debug aid only.
func (e *Engine) RecentlyGenerated() []string {
	if e.recent == nil {
		return nil
	}
	keys := e.recent.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if s, ok := k.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
