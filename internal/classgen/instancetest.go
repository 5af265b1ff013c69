package classgen

import (
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/tagengine"
)

// ancestorsOfHijackedOrBoxed is the closed set spec.md §9's design notes
// name: "AncestorsOfHijackedClasses ∪ {Object, String, Nothing}". Instance
// tests for members of this set must also accept objects carrying a
// primitive JS representation (number/string/boolean), not only
// ScalaJS-allocated instances (spec.md §4.3's "special paths for Object,
// String, Nothing, ancestors-of-hijacked-number/boolean/string classes").
// genTypeData also consults it: only members of this set get is/isArrayOf
// references in their type data. Built from ir.Definitions rather than hand-enumerated so the hijacked
// classes themselves (jl_Integer et al.) and every ancestor interface they
// contribute (jl_Comparable, jl_Number, s_Product, s_Serializable, ...) stay
// in lockstep with the one fixed table spec.md §9 treats as authoritative.
var ancestorsOfHijackedOrBoxed = buildAncestorsOfHijackedOrBoxed()

func buildAncestorsOfHijackedOrBoxed() map[string]bool {
	set := map[string]bool{
		"Object":  true,
		"String":  true,
		"Nothing": true,
	}
	for hijacked := range ir.Definitions.HijackedBoxed {
		set[hijacked] = true
	}
	for _, ancestors := range ir.Definitions.HijackedAncestors {
		for _, ancestor := range ancestors {
			set[ancestor] = true
		}
	}
	return set
}

// needInstanceTests reports whether class requires `is_C`/`as_C` functions.
// Every class with hasInstanceTests set requires them (spec.md §4.3).
func needInstanceTests(class *ir.LinkedClass) bool {
	return class.HasInstanceTests
}

// genInstanceTest builds the `is_C`/`as_C` pair. `is_C` checks the operand
// carries a `$typeTag` satisfying the class's subtype-interval test (spec.md
// §4.1's IntervalsTest contract); `as_C` additionally accepts `null` and
// otherwise throws a class-cast exception, per the runtime globals of
// spec.md §6.
func genInstanceTest(class *ir.LinkedClass, tags *tagengine.Table) ([]jstree.Node, error) {
	obj := jstree.Ident{Name: "obj"}
	tagExpr := jstree.MemberAccess{Target: obj, Property: jstree.Ident{Name: "$typeTag"}}

	intervalsCheck, err := tags.IntervalsTest(class.EncodedName, tagExpr)
	if err != nil {
		return nil, err
	}

	cond := jstree.BinOp{Op: "&&", Left: obj, Right: intervalsCheck}
	if ancestorsOfHijackedOrBoxed[class.EncodedName] {
		cond = jstree.BinOp{
			Op:   "||",
			Left: cond,
			Right: jstree.Call{
				Callee: jstree.Ident{Name: "ScalaJS.$isScalaJSObject"},
				Args:   []jstree.Node{obj},
			},
		}
	}

	isFn := jstree.Function{
		Name:   "is_" + class.EncodedName,
		Params: []string{"obj"},
		Body: []jstree.Node{
			jstree.Return{Value: jstree.UnOp{Op: "!!", Operand: cond}},
		},
	}

	asFn := jstree.Function{
		Name:   "as_" + class.EncodedName,
		Params: []string{"obj"},
		Body: []jstree.Node{
			jstree.If{
				Cond: jstree.BinOp{
					Op:   "||",
					Left: jstree.Call{Callee: jstree.Ident{Name: "is_" + class.EncodedName}, Args: []jstree.Node{obj}},
					Right: jstree.BinOp{
						Op: "===", Left: obj, Right: jstree.Lit{Value: nil},
					},
				},
				Then: jstree.Return{Value: obj},
			},
			jstree.ExprStmt{Expr: jstree.Call{
				Callee: jstree.Ident{Name: "ScalaJS.throwClassCastException"},
				Args:   []jstree.Node{obj, jstree.Lit{Value: class.EncodedName}},
			}},
		},
	}

	return []jstree.Node{isFn, asFn}, nil
}

// arrayTagDepthShift is the bit offset at which an array tag's depth field
// starts (spec.md §4.3: "tests tag sign-bit, depth bits (23..30 of tag)").
const arrayTagDepthShift = 23

// genArrayInstanceTest builds `isArrayOf_C`/`asArrayOf_C`. The `Object`
// case checks `$classData`/`arrayDepth` directly and accepts any
// primitivity (spec.md §4.3); other classes test the tag's sign bit
// (negative marks an array tag), decode the depth from bits 23..30, and
// test the remaining low 23 bits against the element class's subtype
// interval.
func genArrayInstanceTest(class *ir.LinkedClass, tags *tagengine.Table) ([]jstree.Node, error) {
	obj := jstree.Ident{Name: "obj"}
	depth := jstree.Ident{Name: "depth"}

	var cond jstree.Node
	if class.EncodedName == "Object" {
		cond = jstree.BinOp{
			Op:   "&&",
			Left: jstree.MemberAccess{Target: obj, Property: jstree.Ident{Name: "$classData"}},
			Right: jstree.BinOp{
				Op:   ">=",
				Left: jstree.MemberAccess{Target: jstree.MemberAccess{Target: obj, Property: jstree.Ident{Name: "$classData"}}, Property: jstree.Ident{Name: "arrayDepth"}},
				Right: depth,
			},
		}
	} else {
		tag := jstree.MemberAccess{Target: obj, Property: jstree.Ident{Name: "$typeTag"}}
		signBit := jstree.BinOp{Op: "<", Left: tag, Right: jstree.Lit{Value: int32(0)}}
		depthBits := jstree.BinOp{
			Op: "===",
			Left: jstree.BinOp{
				Op:    "&",
				Left:  jstree.BinOp{Op: ">>", Left: tag, Right: jstree.Lit{Value: int32(arrayTagDepthShift)}},
				Right: jstree.Lit{Value: int32(0xFF)},
			},
			Right: depth,
		}
		lowBits := jstree.BinOp{Op: "&", Left: tag, Right: jstree.Lit{Value: int32((1 << arrayTagDepthShift) - 1)}}
		elemCheck, err := tags.IntervalsTest(class.EncodedName, lowBits)
		if err != nil {
			return nil, err
		}
		cond = jstree.BinOp{Op: "&&", Left: signBit, Right: jstree.BinOp{Op: "&&", Left: depthBits, Right: elemCheck}}
	}

	isArrayFn := jstree.Function{
		Name:   "isArrayOf_" + class.EncodedName,
		Params: []string{"obj", "depth"},
		Body: []jstree.Node{
			jstree.Return{Value: jstree.UnOp{Op: "!!", Operand: jstree.BinOp{Op: "&&", Left: obj, Right: cond}}},
		},
	}

	asArrayFn := jstree.Function{
		Name:   "asArrayOf_" + class.EncodedName,
		Params: []string{"obj", "depth"},
		Body: []jstree.Node{
			jstree.If{
				Cond: jstree.BinOp{
					Op:   "||",
					Left: jstree.Call{Callee: jstree.Ident{Name: "isArrayOf_" + class.EncodedName}, Args: []jstree.Node{obj, depth}},
					Right: jstree.BinOp{Op: "===", Left: obj, Right: jstree.Lit{Value: nil}},
				},
				Then: jstree.Return{Value: obj},
			},
			jstree.ExprStmt{Expr: jstree.Call{
				Callee: jstree.Ident{Name: "ScalaJS.throwArrayCastException"},
				Args:   []jstree.Node{obj, jstree.Lit{Value: class.EncodedName}, depth},
			}},
		},
	}

	return []jstree.Node{isArrayFn, asArrayFn}, nil
}
