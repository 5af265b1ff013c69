package classgen

import (
	"github.com/scalajs/jsemitter/internal/desugar"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// genStaticMethod emits one static-method piece: an assignment to
// `s_ClassName__method` in ES5-family dialects, a static MethodDef in
// class-based dialects (spec.md §4.3's "static methods" row).
func genStaticMethod(class *ir.LinkedClass, m ir.MethodDef, mode outmode.Mode, q desugar.Queries) (jstree.Node, error) {
	fn, err := desugar.DesugarToFunction(class.EncodedName, m.Params, "", m.Body, false, true, mode, q, m.Name)
	if err != nil {
		return nil, err
	}

	if outmode.Registry[mode].UsesClasses {
		return jstree.MethodDef{Name: m.Name, Static: true, Params: fn.Params, Body: fn.Body}, nil
	}

	return jstree.Assign{
		Op:     "=",
		Target: jstree.Ident{Name: "s_" + class.EncodedName + "__" + m.Name},
		Value:  jstree.Function{Params: fn.Params, Body: fn.Body},
	}, nil
}

// genMemberMethod emits one member (instance) method piece: ES5 assigns to
// the prototype; class-based dialects emit a non-static MethodDef (spec.md
// §4.3's "member methods" row). Constructor-bearing methods must return
// `this` from the emitted body, per spec.md §4.3's edge cases.
func genMemberMethod(class *ir.LinkedClass, m ir.MethodDef, mode outmode.Mode, q desugar.Queries) (jstree.Node, error) {
	body := m.Body
	if m.IsConstructor {
		body = ir.Block{Stmts: []ir.Expr{body, ir.Return{Value: ir.This{}}}}
	}

	fn, err := desugar.DesugarToFunction(class.EncodedName, m.Params, "", body, false, false, mode, q, m.Name)
	if err != nil {
		return nil, err
	}

	if outmode.Registry[mode].UsesClasses {
		return jstree.MethodDef{Name: m.Name, Static: false, Params: fn.Params, Body: fn.Body}, nil
	}

	return jstree.Assign{
		Op: "=",
		Target: jstree.MemberAccess{
			Target:   jstree.MemberAccess{Target: jstree.Ident{Name: "c_" + class.EncodedName}, Property: jstree.Ident{Name: "prototype"}},
			Property: jstree.Ident{Name: m.Name},
		},
		Value: jstree.Function{Params: fn.Params, Body: fn.Body},
	}, nil
}

// genDefaultMethod emits a default (interface) method: a standalone
// function taking the receiver as an explicit first parameter, `$thiz`, so
// implementors' statics can dispatch through it (spec.md §4.3's "default
// (interface) methods" row, GLOSSARY "Default method"). Interfaces never
// own a JS class declaration in any dialect here, so unlike constructors and
// member methods this piece is always a loose top-level declaration, even in
// strong mode: its name alone carries the `$f_` strong-mode convention
// (spec.md §4.3) rather than a `static` slot on a nonexistent class body.
func genDefaultMethod(class *ir.LinkedClass, m ir.MethodDef, mode outmode.Mode, q desugar.Queries) (jstree.Node, error) {
	fn, err := desugar.DesugarToFunction(class.EncodedName, m.Params, "$thiz", m.Body, false, false, mode, q, m.Name)
	if err != nil {
		return nil, err
	}

	if mode == outmode.ES6Strong {
		return jstree.Function{Name: "$f_" + m.Name, Params: fn.Params, Body: fn.Body}, nil
	}

	return jstree.Assign{
		Op:     "=",
		Target: jstree.Ident{Name: "f_" + class.EncodedName + "__" + m.Name},
		Value:  jstree.Function{Params: fn.Params, Body: fn.Body},
	}, nil
}

// excludedByCtorOpt reports whether m must be dropped from member-method
// emission because the active constructor already carries its body
// (spec.md §4.3's edge case: "When usesJSConstructorOpt(C) is true and the
// member-method list contains a constructor method, the constructor method
// is excluded"). The class is its own query caller here — flipping C's own
// ctor-opt status must invalidate C's own constructor piece, which is
// exactly what routing through the "ConstructorExportDef" sentinel
// achieves (spec.md §4.5).
func excludedByCtorOpt(class *ir.LinkedClass, m ir.MethodDef, q desugar.Queries) bool {
	if !m.IsConstructor {
		return false
	}
	return q.UsesJSConstructorOpt(class.EncodedName, class.EncodedName, "ConstructorExportDef", false)
}
