package desugar

import (
	"fmt"

	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// callContext threads the information desugaring an Apply/New node needs
// beyond the expression itself: the output dialect, the whole-program
// queries, and the identity of the call site (for recording ctor-opt
// dependencies against C7, spec.md §4.2/§4.5).
type callContext struct {
	mode         outmode.Mode
	q            Queries
	callerClass  string
	callerMethod string
	isStatic     bool
}

// DesugarToFunction turns an IR method body into a jstree.Function. When
// thisIdent is non-empty the receiver becomes an explicit first parameter
// (spec.md §4.2, default/interface methods); otherwise `this` desugars to
// the JS `this` keyword.
func DesugarToFunction(
	className string,
	params []ir.Param,
	thisIdent string,
	body ir.Expr,
	isStat bool,
	isStatic bool,
	mode outmode.Mode,
	q Queries,
	methodName string,
) (*jstree.Function, error) {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	if thisIdent != "" {
		names = PrependReceiver(thisIdent, names)
	}

	ctx := &callContext{mode: mode, q: q, callerClass: className, callerMethod: methodName, isStatic: isStatic}
	bodyNodes, err := desugarStatement(body, ctx, thisIdent)
	if err != nil {
		return nil, err
	}

	return &jstree.Function{Params: names, Body: bodyNodes}, nil
}

// DesugarTree turns a single IR expression into a jstree.Node. isStat
// indicates the expression appears in statement position (its value, if
// any, is discarded). DesugarTree itself ignores it and returns the same
// node either way.
func DesugarTree(className string, expr ir.Expr, isStat bool, mode outmode.Mode, q Queries, methodName string, isStatic bool) (jstree.Node, error) {
	ctx := &callContext{mode: mode, q: q, callerClass: className, callerMethod: methodName, isStatic: isStatic}
	return desugarExpr(expr, ctx, "")
}

// desugarStatement desugars a method body into a flat list of jstree
// statements, threading thisIdent through so a This node resolves to the
// explicit receiver parameter for default methods.
func desugarStatement(e ir.Expr, ctx *callContext, thisIdent string) ([]jstree.Node, error) {
	switch t := e.(type) {
	case nil:
		return nil, nil
	case ir.Block:
		var out []jstree.Node
		for _, s := range t.Stmts {
			nodes, err := desugarStatement(s, ctx, thisIdent)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	case ir.Return:
		var val jstree.Node
		if t.Value != nil {
			v, err := desugarExpr(t.Value, ctx, thisIdent)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return []jstree.Node{jstree.Return{Value: val}}, nil
	case ir.If:
		// A literal condition is already decided; emit the live branch's
		// statements directly instead of a conditional the JS engine could
		// never take the other side of (a default method's guard, once the
		// IR has proved it statically false or true). The branch is still
		// wrapped in a single Block so callers that expect desugarStatement
		// to yield exactly one node for an `if` (desugarExpr's ir.If case)
		// keep seeing exactly one.
		if lit, ok := t.Cond.(ir.Literal); ok {
			branch := t.Then
			if jstree.IsFalsy(lit.Value) {
				branch = t.Else
			}
			stmts, err := desugarStatement(branch, ctx, thisIdent)
			if err != nil {
				return nil, err
			}
			return []jstree.Node{jstree.Block{Stmts: stmts}}, nil
		}

		cond, err := desugarExpr(t.Cond, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		thenStmts, err := desugarStatement(t.Then, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		var elseNode jstree.Node
		if t.Else != nil {
			elseStmts, err := desugarStatement(t.Else, ctx, thisIdent)
			if err != nil {
				return nil, err
			}
			elseNode = jstree.Block{Stmts: elseStmts}
		}
		return []jstree.Node{jstree.If{Cond: cond, Then: jstree.Block{Stmts: thenStmts}, Else: elseNode}}, nil
	case ir.Assign:
		target, err := desugarExpr(t.Target, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		val, err := desugarExpr(t.Value, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return []jstree.Node{jstree.Assign{Op: "=", Target: target, Value: val}}, nil
	default:
		node, err := desugarExpr(e, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return []jstree.Node{jstree.ExprStmt{Expr: node}}, nil
	}
}

// desugarExpr desugars a single IR expression to a jstree expression node.
func desugarExpr(e ir.Expr, ctx *callContext, thisIdent string) (jstree.Node, error) {
	switch t := e.(type) {
	case ir.This:
		if thisIdent != "" {
			return jstree.Ident{Name: thisIdent}, nil
		}
		return jstree.Ident{Name: "this"}, nil
	case ir.VarRef:
		return jstree.Ident{Name: t.Name}, nil
	case ir.Literal:
		return jstree.Lit{Value: t.Value}, nil
	case ir.BinaryOp:
		op, ok := jsBinaryOp(t.Op)
		if !ok {
			return nil, fmt.Errorf("desugar: unknown binary operator %v", t.Op)
		}
		left, err := desugarExpr(t.Left, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		right, err := desugarExpr(t.Right, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return jstree.BinOp{Op: op, Left: left, Right: right}, nil
	case ir.UnaryOp:
		op, ok := jsUnaryOp(t.Op)
		if !ok {
			return nil, fmt.Errorf("desugar: unknown unary operator %v", t.Op)
		}
		operand, err := desugarExpr(t.Operand, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return jstree.UnOp{Op: op, Operand: operand}, nil
	case ir.Apply:
		return desugarApply(t, ctx, thisIdent)
	case ir.New:
		return desugarNew(t, ctx, thisIdent)
	case ir.InstanceTest:
		return desugarInstanceTest(t, ctx, thisIdent)
	case ir.Return:
		val, err := desugarExpr(t.Value, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return jstree.Return{Value: val}, nil
	case ir.Block:
		stmts, err := desugarStatement(t, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return jstree.Block{Stmts: stmts}, nil
	case ir.If:
		stmts, err := desugarStatement(t, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		if len(stmts) != 1 {
			return nil, fmt.Errorf("desugar: expected single If statement")
		}
		return stmts[0], nil
	case ir.Assign:
		stmts, err := desugarStatement(t, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		return stmts[0], nil
	default:
		return nil, fmt.Errorf("desugar: unhandled IR expression type %T", e)
	}
}

// staticDispatchName returns the helper function name through which a
// statically-resolved call to method on targetClass is routed (spec.md
// §4.2): interface targets route through $f_ (strong mode) or
// f_className__methodName (other modes); class targets route through
// s_className__methodName regardless of dialect.
func staticDispatchName(targetClass, method string, mode outmode.Mode, isInterface bool) string {
	if isInterface {
		if mode == outmode.ES6Strong {
			return "$f_" + method
		}
		return fmt.Sprintf("f_%s__%s", targetClass, method)
	}
	return fmt.Sprintf("s_%s__%s", targetClass, method)
}

func desugarApply(a ir.Apply, ctx *callContext, thisIdent string) (jstree.Node, error) {
	args := make([]jstree.Node, len(a.Args))
	for i, arg := range a.Args {
		n, err := desugarExpr(arg, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}

	if a.Static {
		isIface := ctx.q.IsInterface(a.Target)
		name := staticDispatchName(a.Target, a.Method, ctx.mode, isIface)
		if isIface && a.Receiver != nil {
			recv, err := desugarExpr(a.Receiver, ctx, thisIdent)
			if err != nil {
				return nil, err
			}
			args = append([]jstree.Node{recv}, args...)
		}
		return jstree.Call{Callee: jstree.Ident{Name: name}, Args: args}, nil
	}

	if a.Receiver == nil {
		return nil, fmt.Errorf("desugar: dynamic call to %s.%s has no receiver", a.Target, a.Method)
	}
	recv, err := desugarExpr(a.Receiver, ctx, thisIdent)
	if err != nil {
		return nil, err
	}
	return jstree.Call{
		Callee: jstree.MemberAccess{Target: recv, Property: jstree.Ident{Name: a.Method}},
		Args:   args,
	}, nil
}

// desugarNew desugars a `new` expression. When the target class is eligible
// for the JS-constructor optimization (spec.md §4.2/§4.3), the fused form is
// emitted: a single `new` call whose constructor already performs
// initialization. Otherwise, allocation and the explicit init-method call
// are sequenced via an IIFE returning the freshly allocated instance.
func desugarNew(n ir.New, ctx *callContext, thisIdent string) (jstree.Node, error) {
	args := make([]jstree.Node, len(n.Args))
	for i, a := range n.Args {
		node, err := desugarExpr(a, ctx, thisIdent)
		if err != nil {
			return nil, err
		}
		args[i] = node
	}

	ctorTarget := jstree.MemberAccess{
		Target:   jstree.Ident{Name: "ScalaJS.c"},
		Property: jstree.Ident{Name: n.Class},
	}

	if ctx.q.UsesJSConstructorOpt(n.Class, ctx.callerClass, ctx.callerMethod, ctx.isStatic) {
		return jstree.NewExpr{Target: ctorTarget, Args: args}, nil
	}

	cls, ok := ctx.q.LinkedClassByName(n.Class)
	initName := "init___"
	if ok {
		if ctorMethod, has := cls.ConstructorMethod(); has {
			initName = ctorMethod.Name
		}
	}

	return jstree.Call{
		Callee: jstree.Function{
			Body: []jstree.Node{
				jstree.VarDecl{Kind: jstree.VarVar, Name: "x", Init: jstree.NewExpr{Target: ctorTarget}},
				jstree.ExprStmt{Expr: jstree.Call{
					Callee: jstree.MemberAccess{Target: jstree.Ident{Name: "x"}, Property: jstree.Ident{Name: initName}},
					Args:   args,
				}},
				jstree.Return{Value: jstree.Ident{Name: "x"}},
			},
		},
		Args: nil,
	}, nil
}

func desugarInstanceTest(t ir.InstanceTest, ctx *callContext, thisIdent string) (jstree.Node, error) {
	operand, err := desugarExpr(t.Operand, ctx, thisIdent)
	if err != nil {
		return nil, err
	}
	return jstree.Call{
		Callee: jstree.Ident{Name: "ScalaJS.is." + t.Class},
		Args:   []jstree.Node{operand},
	}, nil
}
