package desugar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// fakeQueries is a hand-rolled Queries stub for desugar rule tests; it avoids
// depending on the real driver (C8), mirroring how the teacher's
// bloblang/query tests stub out a minimal FunctionContext rather than
// standing up a full pipeline.
type fakeQueries struct {
	interfaces map[string]bool
	classes    map[string]*ir.LinkedClass
	ctorOpt    map[string]bool
	recorded   []string
}

func (f *fakeQueries) IsInterface(name string) bool { return f.interfaces[name] }

func (f *fakeQueries) LinkedClassByName(name string) (*ir.LinkedClass, bool) {
	c, ok := f.classes[name]
	return c, ok
}

func (f *fakeQueries) NeedsSubtypeArray(name string) bool { return false }

func (f *fakeQueries) UsesJSConstructorOpt(targetClass, callerClass, method string, isStatic bool) bool {
	f.recorded = append(f.recorded, targetClass+"/"+callerClass+"/"+method)
	return f.ctorOpt[targetClass]
}

func render(t *testing.T, n jstree.Node) string {
	t.Helper()
	b := jstree.NewStringBuilder()
	require.NoError(t, b.Append(n))
	return b.String()
}

func TestDesugarLiteralsAndVars(t *testing.T) {
	q := &fakeQueries{}
	node, err := DesugarTree("Foo", ir.Literal{Value: int32(42)}, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "42\n", render(t, node))

	node, err = DesugarTree("Foo", ir.VarRef{Name: "x"}, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "x\n", render(t, node))
}

func TestDesugarThisWithoutReceiverIdent(t *testing.T) {
	q := &fakeQueries{}
	node, err := DesugarTree("Foo", ir.This{}, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "this\n", render(t, node))
}

func TestDesugarBinaryAndUnaryOps(t *testing.T) {
	q := &fakeQueries{}
	expr := ir.BinaryOp{Op: ir.OpAdd, Left: ir.Literal{Value: int32(1)}, Right: ir.Literal{Value: int32(2)}}
	node, err := DesugarTree("Foo", expr, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2)\n", render(t, node))

	un := ir.UnaryOp{Op: ir.OpNot, Operand: ir.Literal{Value: true}}
	node, err = DesugarTree("Foo", un, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "!true\n", render(t, node))
}

func TestDesugarApplyClassStaticDispatch(t *testing.T) {
	q := &fakeQueries{interfaces: map[string]bool{}}
	expr := ir.Apply{Target: "Foo", Method: "bar", Static: true, Args: []ir.Expr{ir.Literal{Value: int32(1)}}}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", true)
	require.NoError(t, err)
	assert.Equal(t, "s_Foo__bar(1)\n", render(t, node))
}

func TestDesugarApplyInterfaceStaticDispatchDefaultDialect(t *testing.T) {
	q := &fakeQueries{interfaces: map[string]bool{"Iface": true}}
	expr := ir.Apply{
		Receiver: ir.This{},
		Target:   "Iface",
		Method:   "bar",
		Static:   true,
		Args:     []ir.Expr{ir.Literal{Value: int32(1)}},
	}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", true)
	require.NoError(t, err)
	assert.Equal(t, "f_Iface__bar(this, 1)\n", render(t, node))
}

func TestDesugarApplyInterfaceStaticDispatchStrongDialect(t *testing.T) {
	q := &fakeQueries{interfaces: map[string]bool{"Iface": true}}
	expr := ir.Apply{
		Receiver: ir.This{},
		Target:   "Iface",
		Method:   "bar",
		Static:   true,
	}
	node, err := DesugarTree("Caller", expr, false, outmode.ES6Strong, q, "m", true)
	require.NoError(t, err)
	assert.Equal(t, "$f_bar(this)\n", render(t, node))
}

func TestDesugarApplyDynamicDispatch(t *testing.T) {
	q := &fakeQueries{}
	expr := ir.Apply{Receiver: ir.VarRef{Name: "x"}, Target: "Foo", Method: "bar", Args: nil}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "x.bar()\n", render(t, node))
}

func TestDesugarApplyDynamicDispatchMissingReceiverErrors(t *testing.T) {
	q := &fakeQueries{}
	expr := ir.Apply{Target: "Foo", Method: "bar"}
	_, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", false)
	assert.Error(t, err)
}

func TestDesugarNewCtorOptFusesCall(t *testing.T) {
	q := &fakeQueries{ctorOpt: map[string]bool{"Point": true}}
	expr := ir.New{Class: "Point", Args: []ir.Expr{ir.Literal{Value: int32(1)}, ir.Literal{Value: int32(2)}}}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "new ScalaJS.c.Point(1, 2)\n", render(t, node))
	require.Len(t, q.recorded, 1)
	assert.Equal(t, "Point/Caller/m", q.recorded[0])
}

func TestDesugarNewUnoptimizedAllocatesThenInits(t *testing.T) {
	q := &fakeQueries{
		ctorOpt: map[string]bool{"Point": false},
		classes: map[string]*ir.LinkedClass{
			"Point": {
				EncodedName: "Point",
				MemberMethods: []ir.MethodDef{
					{Name: "init___x__y", IsConstructor: true},
				},
			},
		},
	}
	expr := ir.New{Class: "Point", Args: []ir.Expr{ir.Literal{Value: int32(1)}}}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	got := render(t, node)
	assert.Contains(t, got, "var x = new ScalaJS.c.Point();")
	assert.Contains(t, got, "x.init___x__y(1);")
	assert.Contains(t, got, "return x;")
}

func TestDesugarInstanceTest(t *testing.T) {
	q := &fakeQueries{}
	expr := ir.InstanceTest{Operand: ir.VarRef{Name: "v"}, Class: "Foo"}
	node, err := DesugarTree("Caller", expr, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "ScalaJS.is.Foo(v)\n", render(t, node))
}

func TestDesugarIfAndAssignStatements(t *testing.T) {
	q := &fakeQueries{}
	body := ir.Block{Stmts: []ir.Expr{
		ir.If{
			Cond: ir.BinaryOp{Op: ir.OpLt, Left: ir.VarRef{Name: "x"}, Right: ir.Literal{Value: int32(0)}},
			Then: ir.Return{Value: ir.Literal{Value: int32(-1)}},
		},
		ir.Assign{Target: ir.VarRef{Name: "y"}, Value: ir.Literal{Value: int32(2)}},
		ir.Return{Value: ir.VarRef{Name: "y"}},
	}}
	fn, err := DesugarToFunction("Foo", []ir.Param{{Name: "x"}}, "", body, false, false, outmode.ES5Global, q, "bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, fn.Params)
	require.Len(t, fn.Body, 3)
}

func TestDesugarIfWithLiteralConditionFoldsToLiveBranch(t *testing.T) {
	q := &fakeQueries{}

	truthy := ir.If{
		Cond: ir.Literal{Value: true},
		Then: ir.Return{Value: ir.Literal{Value: int32(1)}},
		Else: ir.Return{Value: ir.Literal{Value: int32(2)}},
	}
	node, err := DesugarTree("Foo", truthy, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "{\nreturn 1;\n}\n", render(t, node))

	falsy := ir.If{
		Cond: ir.Literal{Value: false},
		Then: ir.Return{Value: ir.Literal{Value: int32(1)}},
		Else: ir.Return{Value: ir.Literal{Value: int32(2)}},
	}
	node, err = DesugarTree("Foo", falsy, false, outmode.ES5Global, q, "m", false)
	require.NoError(t, err)
	assert.Equal(t, "{\nreturn 2;\n}\n", render(t, node))
}

func TestDesugarToFunctionPrependsReceiver(t *testing.T) {
	q := &fakeQueries{}
	body := ir.Return{Value: ir.This{}}
	fn, err := DesugarToFunction("Iface", []ir.Param{{Name: "a"}}, "$this", body, false, false, outmode.ES5Global, q, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"$this", "a"}, fn.Params)
	got := render(t, fn.Body[0])
	assert.Equal(t, "return $this;\n", got)
}
