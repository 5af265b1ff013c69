// Package emitcache implements the two-level incremental tree cache
// (spec.md §4.4's component C6): a per-class OneTimeCache of desugared
// pieces, a per-method version-gated cache, and the retention lifecycle
// that ties them together across runs.
package emitcache

import "github.com/scalajs/jsemitter/internal/jstree"

// Slot is a OneTimeCache cell: it is filled by the first GetOrElseUpdate
// call during a class-cache's lifetime and returns that same tree on every
// subsequent call until Invalidate resets it (spec.md §3, "OneTimeCache
// slots ... filled on first getOrElseUpdate per class-cache lifetime").
type Slot struct {
	tree jstree.Node
	set  bool
}

// GetOrElseUpdate returns the cached tree if present, otherwise invokes
// producer, stores its result and returns it.
func (s *Slot) GetOrElseUpdate(producer func() (jstree.Node, error)) (jstree.Node, error) {
	if s.set {
		return s.tree, nil
	}
	t, err := producer()
	if err != nil {
		return nil, err
	}
	s.tree = t
	s.set = true
	return t, nil
}

// Invalidate resets the slot to empty.
func (s *Slot) Invalidate() {
	s.tree = nil
	s.set = false
}

// Filled reports whether the slot has been populated.
func (s *Slot) Filled() bool { return s.set }

// DesugaredClassCache bundles the seven OneTimeCache slots of a single
// class's desugared pieces (spec.md §3).
type DesugaredClassCache struct {
	Constructor     Slot
	ExportedMembers Slot
	InstanceTests   Slot
	TypeData        Slot
	SetTypeData     Slot
	ModuleAccessor  Slot
	ClassExports    Slot
}

// slotByName resolves the sentinel method names C7 routes invalidation
// through (spec.md §4.5: "ConstructorExportDef", "ExportedMember") to the
// matching slot, returning nil for names that don't name a
// DesugaredClassCache slot.
func (d *DesugaredClassCache) slotByName(name string) *Slot {
	switch name {
	case "ConstructorExportDef":
		return &d.Constructor
	case "ExportedMember":
		return &d.ExportedMembers
	default:
		return nil
	}
}
