package ir

// Definitions is the fixed, closed table spec.md §9 calls "the IR's
// Definitions namespace": reserved subtype tags for the root class and the
// hijacked primitive boxes, plus the ancestor chains hijacked classes
// contribute to instance-test special-casing (spec.md §4.3, "special paths
// for ... ancestors-of-hijacked-number/boolean/string classes"). A real
// linker would hand this table to the emitter per run; here it is a
// constant baked into the IR package, treated as closed by every caller
// (spec.md §9's "fixed tables ... closed constant set").
var Definitions = struct {
	// ReservedTags maps encoded class names to the tag the tag engine must
	// not reassign (spec.md §4.1 step 2).
	ReservedTags map[string]int32

	// HijackedBoxed is the set of classes whose instances are represented
	// by a JS primitive rather than an allocated object (spec.md §4.3's
	// instance-test special paths).
	HijackedBoxed map[string]bool

	// HijackedAncestors maps each hijacked class to the non-instantiable
	// ancestor interfaces an `is_`/`as_` test for that ancestor must also
	// accept (spec.md §4.3, "ancestors-of-hijacked-... classes").
	HijackedAncestors map[string][]string
}{
	ReservedTags: map[string]int32{
		"O":    1,
		"jl_Boolean": 2,
		"jl_Character": 3,
		"jl_Byte": 4,
		"jl_Short": 5,
		"jl_Integer": 6,
		"jl_Long": 7,
		"jl_Float": 8,
		"jl_Double": 9,
		"T":    10,
		"sr_BoxedUnit": 11,
	},
	HijackedBoxed: map[string]bool{
		"jl_Boolean": true, "jl_Character": true, "jl_Byte": true,
		"jl_Short": true, "jl_Integer": true, "jl_Long": true,
		"jl_Float": true, "jl_Double": true, "T": true, "sr_BoxedUnit": true,
	},
	HijackedAncestors: map[string][]string{
		"jl_Boolean":   {"jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Character": {"jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Byte":      {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Short":     {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Integer":   {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Long":      {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Float":     {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"jl_Double":    {"jl_Number", "jl_Comparable", "s_Product", "s_Serializable"},
		"T":            {"jl_Comparable", "s_Product", "s_Serializable"},
	},
}
