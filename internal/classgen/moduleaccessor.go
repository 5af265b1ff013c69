package classgen

import (
	"fmt"

	"github.com/scalajs/jsemitter/internal/emitconfig"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
)

// genModuleAccessor builds the module singleton accessor (spec.md §4.3's
// "module accessor" row), observing the three checked-behavior modes of
// spec.md §7: Unchecked never distinguishes re-entrancy; Compliant returns
// `null` on a re-entrant call; Fatal additionally throws a
// sjsr_UndefinedBehaviorError naming the class's display name.
func genModuleAccessor(class *ir.LinkedClass, behavior emitconfig.CheckedBehavior) jstree.Node {
	moduleVar := jstree.Ident{Name: "n_" + class.EncodedName}
	assignModule := jstree.Assign{
		Op:     "=",
		Target: moduleVar,
		Value:  jstree.NewExpr{Target: jstree.MemberAccess{Target: jstree.Ident{Name: "ScalaJS.c"}, Property: jstree.Ident{Name: class.EncodedName}}},
	}

	var body []jstree.Node
	switch behavior {
	case emitconfig.Compliant, emitconfig.Fatal:
		thenStmts := []jstree.Node{
			jstree.Assign{Op: "=", Target: moduleVar, Value: jstree.Lit{Value: nil}},
			assignModule,
		}
		ifStmt := jstree.If{
			Cond: jstree.BinOp{Op: "===", Left: moduleVar, Right: jstree.Lit{Value: jstree.Undefined{}}},
			Then: jstree.Block{Stmts: thenStmts},
		}
		if behavior == emitconfig.Fatal {
			msg := fmt.Sprintf("Initializer of %s called before completion of its super constructor", class.DisplayName())
			ifStmt.Else = jstree.If{
				Cond: jstree.BinOp{Op: "===", Left: moduleVar, Right: jstree.Lit{Value: nil}},
				Then: jstree.Block{Stmts: []jstree.Node{
					jstree.Throw{Value: jstree.NewExpr{
						Target: jstree.Ident{Name: "sjsr_UndefinedBehaviorError"},
						Args:   []jstree.Node{jstree.Lit{Value: msg}},
					}},
				}},
			}
		}
		body = []jstree.Node{ifStmt, jstree.Return{Value: moduleVar}}
	default: // Unchecked
		body = []jstree.Node{
			jstree.If{
				Cond: jstree.UnOp{Op: "!", Operand: moduleVar},
				Then: jstree.Block{Stmts: []jstree.Node{assignModule}},
			},
			jstree.Return{Value: moduleVar},
		}
	}

	return jstree.Function{Name: "m_" + class.EncodedName, Body: body}
}
