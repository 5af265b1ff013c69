package classgen

import (
	"github.com/scalajs/jsemitter/internal/desugar"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// needsConstructor reports whether class requires a constructor piece at
// all (spec.md §4.3's emission table).
func needsConstructor(class *ir.LinkedClass) bool {
	return class.HasInstances && class.Kind.IsAnyScalaJSDefinedClass()
}

// genConstructor builds the constructor piece. ES5 emits a function plus
// the prototype-chain wiring and inheritable-ctor helper (spec.md §8's S2
// scenario); ES6/strong emit a class-body `constructor(){}` MethodDef, left
// for classgen's class-assembly step to fold into the ClassNode.
func genConstructor(class *ir.LinkedClass, mode outmode.Mode, q desugar.Queries) ([]jstree.Node, error) {
	var body ir.Expr
	var params []ir.Param
	if class.Kind.IsJSType() {
		if ctorMember, hasCtor := class.ConstructorExportedMember(); hasCtor {
			body = ctorMember.Body
			params = ctorMember.Params
		}
	} else if ctorMethod, hasCtor := class.ConstructorMethod(); hasCtor {
		body = ctorMethod.Body
		params = ctorMethod.Params
	}

	fn, err := desugar.DesugarToFunction(class.EncodedName, params, "", body, false, false, mode, q, "<constructor>")
	if err != nil {
		return nil, err
	}
	fn.Name = ""

	if outmode.Registry[mode].UsesClasses {
		return []jstree.Node{jstree.MethodDef{
			Name:   "constructor",
			Static: false,
			Params: fn.Params,
			Body:   fn.Body,
		}}, nil
	}

	ctorIdent := "c_" + class.EncodedName
	superIdent := "h_Object"
	if class.SuperClass != "" {
		superIdent = "h_" + class.SuperClass
	}

	return []jstree.Node{
		jstree.DocComment{Text: "@constructor"},
		jstree.Assign{
			Op:     "=",
			Target: jstree.Ident{Name: ctorIdent},
			Value:  jstree.Function{Params: fn.Params, Body: fn.Body},
		},
		jstree.Assign{
			Op:     "=",
			Target: jstree.MemberAccess{Target: jstree.Ident{Name: ctorIdent}, Property: jstree.Ident{Name: "prototype"}},
			Value:  jstree.NewExpr{Target: jstree.Ident{Name: superIdent}},
		},
		jstree.Assign{
			Op: "=",
			Target: jstree.MemberAccess{
				Target:   jstree.MemberAccess{Target: jstree.Ident{Name: ctorIdent}, Property: jstree.Ident{Name: "prototype"}},
				Property: jstree.Ident{Name: "constructor"},
			},
			Value: jstree.Ident{Name: ctorIdent},
		},
		jstree.Assign{
			Op:     "=",
			Target: jstree.Ident{Name: "h_" + class.EncodedName},
			Value:  jstree.Function{Body: nil},
		},
		jstree.Assign{
			Op: "=",
			Target: jstree.MemberAccess{
				Target:   jstree.Ident{Name: "h_" + class.EncodedName},
				Property: jstree.Ident{Name: "prototype"},
			},
			Value: jstree.MemberAccess{Target: jstree.Ident{Name: ctorIdent}, Property: jstree.Ident{Name: "prototype"}},
		},
	}, nil
}
