package classgen

import (
	"github.com/scalajs/jsemitter/internal/desugar"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// genExportedMembers builds the "exported members / properties" piece of
// spec.md §4.3's table: `@JSExport`ed methods, getters and setters. ES5
// family dialects emit a plain prototype assignment for a method and one
// `Object.defineProperty` call with an accessor descriptor for a
// getter/setter pair sharing one property name; class-based dialects emit
// loose `MethodDef`/`GetterDef`/`SetterDef` nodes (a GetterDef and a
// SetterDef when a property has both), which ClassBody folds into the
// class node alongside genConstructor's and genMemberMethod's. A literal
// "constructor" exported member
// belongs to the constructor piece, not here, so it is skipped.
func genExportedMembers(class *ir.LinkedClass, mode outmode.Mode, q desugar.Queries) ([]jstree.Node, error) {
	type accessorPair struct {
		get, set *ir.ExportedMember
	}
	accessors := make(map[string]*accessorPair)
	var order []string
	var out []jstree.Node

	for i := range class.ExportedMembers {
		m := &class.ExportedMembers[i]
		switch m.Kind {
		case ir.ExportedConstructor:
			continue
		case ir.ExportedGetter, ir.ExportedSetter:
			pair, ok := accessors[m.NameLiteral]
			if !ok {
				pair = &accessorPair{}
				accessors[m.NameLiteral] = pair
				order = append(order, m.NameLiteral)
			}
			if m.Kind == ir.ExportedGetter {
				pair.get = m
			} else {
				pair.set = m
			}
		case ir.ExportedMethod:
			fn, err := desugar.DesugarToFunction(class.EncodedName, m.Params, "", m.Body, false, false, mode, q, m.NameLiteral)
			if err != nil {
				return nil, err
			}
			out = append(out, genExportedMethodNode(class, m.NameLiteral, fn, mode))
		}
	}

	for _, name := range order {
		pair := accessors[name]
		nodes, err := genExportedAccessor(class, name, pair.get, pair.set, mode, q)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}

	return out, nil
}

func genExportedMethodNode(class *ir.LinkedClass, name string, fn *jstree.Function, mode outmode.Mode) jstree.Node {
	if outmode.Registry[mode].UsesClasses {
		return jstree.MethodDef{Name: name, Static: false, Params: fn.Params, Body: fn.Body}
	}
	return jstree.Assign{
		Op: "=",
		Target: jstree.MemberAccess{
			Target:   jstree.MemberAccess{Target: jstree.Ident{Name: "c_" + class.EncodedName}, Property: jstree.Ident{Name: "prototype"}},
			Property: jstree.Ident{Name: name},
		},
		Value: jstree.Function{Params: fn.Params, Body: fn.Body},
	}
}

func genExportedAccessor(class *ir.LinkedClass, name string, get, set *ir.ExportedMember, mode outmode.Mode, q desugar.Queries) ([]jstree.Node, error) {
	if outmode.Registry[mode].UsesClasses {
		var nodes []jstree.Node
		if get != nil {
			fn, err := desugar.DesugarToFunction(class.EncodedName, nil, "", get.Body, false, false, mode, q, name)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, jstree.GetterDef{Name: name, Body: fn.Body})
		}
		if set != nil {
			fn, err := desugar.DesugarToFunction(class.EncodedName, set.Params, "", set.Body, false, false, mode, q, name)
			if err != nil {
				return nil, err
			}
			param := "v"
			if len(fn.Params) > 0 {
				param = fn.Params[0]
			}
			nodes = append(nodes, jstree.SetterDef{Name: name, Param: param, Body: fn.Body})
		}
		return nodes, nil
	}

	descriptor := []jstree.Prop{
		{Key: "configurable", Value: jstree.Lit{Value: true}},
		{Key: "enumerable", Value: jstree.Lit{Value: true}},
	}
	if get != nil {
		fn, err := desugar.DesugarToFunction(class.EncodedName, nil, "", get.Body, false, false, mode, q, name)
		if err != nil {
			return nil, err
		}
		descriptor = append(descriptor, jstree.Prop{Key: "get", Value: jstree.Function{Params: fn.Params, Body: fn.Body}})
	}
	if set != nil {
		fn, err := desugar.DesugarToFunction(class.EncodedName, set.Params, "", set.Body, false, false, mode, q, name)
		if err != nil {
			return nil, err
		}
		descriptor = append(descriptor, jstree.Prop{Key: "set", Value: jstree.Function{Params: fn.Params, Body: fn.Body}})
	}

	return []jstree.Node{jstree.ExprStmt{Expr: jstree.Call{
		Callee: jstree.Ident{Name: "Object.defineProperty"},
		Args: []jstree.Node{
			jstree.MemberAccess{Target: jstree.Ident{Name: "c_" + class.EncodedName}, Property: jstree.Ident{Name: "prototype"}},
			jstree.Lit{Value: name},
			jstree.ObjectCons{Props: descriptor},
		},
	}}}, nil
}
