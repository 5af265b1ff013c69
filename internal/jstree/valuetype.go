package jstree

// ValueType discretely classifies a boxed literal value so desugaring rules
// (C4) can decide how to render it without repeating type switches at every
// call site. This mirrors internal/bloblang/query's ValueType/ITypeOf pair in
// the teacher corpus, adapted from "classify a bloblang query result" to
// "classify an IR literal about to become a jstree.Lit".
type ValueType string

// All value types a Lit.Value may hold.
const (
	ValueString    ValueType = "string"
	ValueInt       ValueType = "int"
	ValueFloat     ValueType = "float"
	ValueBool      ValueType = "bool"
	ValueNull      ValueType = "null"
	ValueUndefined ValueType = "undefined"
	ValueUnknown   ValueType = "unknown"
)

// TypeOf returns the discrete type of a boxed literal value.
func TypeOf(v interface{}) ValueType {
	switch v.(type) {
	case string:
		return ValueString
	case int, int32, int64:
		return ValueInt
	case float32, float64:
		return ValueFloat
	case bool:
		return ValueBool
	case Undefined:
		return ValueUndefined
	case nil:
		return ValueNull
	}
	return ValueUnknown
}

// IsFalsy reports whether a literal value renders as JS-falsy, used by
// desugaring rules that fold constant conditionals (e.g. a default method's
// guard that the IR already proved statically false).
func IsFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Undefined:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}
