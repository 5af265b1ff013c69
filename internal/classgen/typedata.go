package classgen

import (
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
	"github.com/scalajs/jsemitter/internal/tagengine"
)

// genTypeData builds the `d_C` type-data initializer (spec.md §4.3's "type
// data" row): a call to `new TypeData().initClass(...)` carrying the
// class's name, interface-ness, runtime display name, ancestor tag array,
// self tag, raw-JS-type flag, parent data reference and the is/isArrayOf
// function references. The is/isArrayOf references are passed only for
// classes in ancestorsOfHijackedOrBoxed; every other class gets `undefined`
// in both positions. Strong mode keeps every parameter; other modes
// right-trim a trailing run of `undefined` arguments (spec.md §4.3).
func genTypeData(class *ir.LinkedClass, tags *tagengine.Table, mode outmode.Mode) (jstree.Node, error) {
	tag, ok := tags.Tag(class.EncodedName)
	if !ok {
		tag = 0
	}

	ancestorTags := make([]jstree.Node, 0, len(class.Ancestors))
	for _, a := range class.Ancestors {
		t, ok := tags.Tag(a)
		if !ok {
			continue
		}
		ancestorTags = append(ancestorTags, jstree.Lit{Value: t})
	}

	var isRawJSType jstree.Node = jstree.Lit{Value: jstree.Undefined{}}
	if class.Kind == ir.KindRawJSType {
		isRawJSType = jstree.Lit{Value: true}
	}

	var parentData jstree.Node = jstree.Lit{Value: jstree.Undefined{}}
	if class.SuperClass != "" {
		parentData = jstree.Ident{Name: "d_" + class.SuperClass}
	}

	var isInstanceFun jstree.Node = jstree.Lit{Value: jstree.Undefined{}}
	var isArrayOfFun jstree.Node = jstree.Lit{Value: jstree.Undefined{}}
	if ancestorsOfHijackedOrBoxed[class.EncodedName] {
		if needInstanceTests(class) {
			isInstanceFun = jstree.Ident{Name: "is_" + class.EncodedName}
		}
		isArrayOfFun = jstree.Ident{Name: "isArrayOf_" + class.EncodedName}
	}

	args := []jstree.Node{
		jstree.Lit{Value: class.EncodedName},
		jstree.Lit{Value: class.Kind.IsInterface()},
		jstree.Lit{Value: class.DisplayName()},
		jstree.ArrayCons{Elems: ancestorTags},
		jstree.Lit{Value: tag},
		isRawJSType,
		parentData,
		isInstanceFun,
		isArrayOfFun,
	}

	if !outmode.Registry[mode].IsStrong {
		args = trimTrailingUndefined(args)
	}

	return jstree.Assign{
		Op:     "=",
		Target: jstree.Ident{Name: "d_" + class.EncodedName},
		Value: jstree.Call{
			Callee: jstree.MemberAccess{
				Target:   jstree.NewExpr{Target: jstree.Ident{Name: "ScalaJS.TypeData"}},
				Property: jstree.Ident{Name: "initClass"},
			},
			Args: args,
		},
	}, nil
}

// trimTrailingUndefined drops a trailing run of `Lit{Value: Undefined{}}`
// argument nodes, matching spec.md §4.3's "other modes right-trim
// undefined tails".
func trimTrailingUndefined(args []jstree.Node) []jstree.Node {
	end := len(args)
	for end > 0 {
		lit, ok := args[end-1].(jstree.Lit)
		if !ok {
			break
		}
		if _, isUndef := lit.Value.(jstree.Undefined); !isUndef {
			break
		}
		end--
	}
	return args[:end]
}

// genSetTypeData builds the `ClassData[tag] = d_C` piece, strong-mode only
// (spec.md §4.3's "set-type-data" row).
func genSetTypeData(class *ir.LinkedClass, tags *tagengine.Table) (jstree.Node, error) {
	tag, _ := tags.Tag(class.EncodedName)
	return jstree.Assign{
		Op: "=",
		Target: jstree.MemberAccess{
			Target:   jstree.Ident{Name: "ScalaJS.ClassData"},
			Property: jstree.Lit{Value: tag},
			Computed: true,
		},
		Value: jstree.Ident{Name: "d_" + class.EncodedName},
	}, nil
}

// needsSetTypeData reports whether class requires the set-type-data piece
// (spec.md §4.3's predicate: "kind.isClass ∧ hasInstances ∧
// hasRuntimeTypeInfo").
func needsSetTypeData(class *ir.LinkedClass, mode outmode.Mode) bool {
	return outmode.Registry[mode].IsStrong && class.Kind.IsClass() && class.HasInstances && class.HasRuntimeTypeInfo
}
