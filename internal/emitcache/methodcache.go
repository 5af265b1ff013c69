package emitcache

import "github.com/scalajs/jsemitter/internal/jstree"

// MethodCache is the per-method memo cell: `Option<Tree> + optional version
// + used flag` (spec.md §3). Version equality gates reuse; an empty version
// never matches, forcing invalidation (spec.md §3, "An absent version
// forces invalidation").
type MethodCache struct {
	tree    jstree.Node
	version string
	hasTree bool
	used    bool
}

// StartRun clears the used flag ahead of a new run (spec.md §3,
// "startRun clears used").
func (m *MethodCache) StartRun() { m.used = false }

// GetOrElseUpdate is the canonical memo: if a tree is stored under a
// non-empty version equal to the requested version, it is returned as-is;
// otherwise producer runs and its result is stored under version. Every
// call marks the cache used for this run, reused or not.
func (m *MethodCache) GetOrElseUpdate(version string, producer func() (jstree.Node, error)) (tree jstree.Node, reused bool, err error) {
	m.used = true
	if version != "" && m.hasTree && m.version == version {
		return m.tree, true, nil
	}
	t, err := producer()
	if err != nil {
		return nil, false, err
	}
	m.tree = t
	m.version = version
	m.hasTree = true
	return t, false, nil
}

// Invalidate clears the stored tree, forcing the next GetOrElseUpdate to
// recompute regardless of version (spec.md §3, "invalidate clears the
// tree").
func (m *MethodCache) Invalidate() {
	m.tree = nil
	m.version = ""
	m.hasTree = false
}

// CleanAfterRun reports whether this cache was consulted during the run
// that just ended; callers use this to decide retention (spec.md §3,
// "survives as long as cleanAfterRun is true").
func (m *MethodCache) CleanAfterRun() bool { return m.used }
