package desugar

import "github.com/scalajs/jsemitter/internal/ir"

// jsBinaryOp maps an IR binary operator to its JS operator token. Modeled on
// internal/bloblang/query/arithmetic.go's ArithmeticOperator switch in the
// teacher corpus: a closed enum dispatched by a single switch rather than
// per-operator types.
func jsBinaryOp(op ir.BinaryOperator) (string, bool) {
	switch op {
	case ir.OpAdd:
		return "+", true
	case ir.OpSub:
		return "-", true
	case ir.OpMul:
		return "*", true
	case ir.OpDiv:
		return "/", true
	case ir.OpMod:
		return "%", true
	case ir.OpEq:
		return "===", true
	case ir.OpNeq:
		return "!==", true
	case ir.OpLt:
		return "<", true
	case ir.OpLte:
		return "<=", true
	case ir.OpGt:
		return ">", true
	case ir.OpGte:
		return ">=", true
	case ir.OpAnd:
		return "&&", true
	case ir.OpOr:
		return "||", true
	}
	return "", false
}

// jsUnaryOp maps an IR unary operator to its JS operator token.
func jsUnaryOp(op ir.UnaryOperator) (string, bool) {
	switch op {
	case ir.OpNeg:
		return "-", true
	case ir.OpNot:
		return "!", true
	}
	return "", false
}
