package jstree

import (
	"fmt"
	"strconv"
	"strings"
)

// Builder is the append-only sink the driver (C8) writes trees and raw lines
// into. spec.md §1 treats the real, source-map-aware text builder as an
// external collaborator; Builder is the minimal interface the emitter
// actually needs from it, mirroring the Writer interface of the teacher's
// internal/codec/writer.go (append, no read-back).
type Builder interface {
	// Append renders a tree node and appends its text.
	Append(Node) error
	// WriteLine appends a raw, pre-rendered line (used for prelude/postlude
	// and core-library splicing).
	WriteLine(string) error
}

// StringBuilder is a minimal in-memory Builder, used by tests and by callers
// that don't need source maps.
type StringBuilder struct {
	sb strings.Builder
}

// NewStringBuilder returns an empty StringBuilder.
func NewStringBuilder() *StringBuilder {
	return &StringBuilder{}
}

// Append renders node and appends it followed by a newline.
func (b *StringBuilder) Append(n Node) error {
	var out strings.Builder
	if err := Render(&out, n); err != nil {
		return err
	}
	b.sb.WriteString(out.String())
	b.sb.WriteByte('\n')
	return nil
}

// WriteLine appends a raw line followed by a newline.
func (b *StringBuilder) WriteLine(line string) error {
	b.sb.WriteString(line)
	b.sb.WriteByte('\n')
	return nil
}

// String returns the accumulated text.
func (b *StringBuilder) String() string {
	return b.sb.String()
}

//------------------------------------------------------------------------------

// Render writes the textual JS form of n to w. It is a plain, unminified
// rendering: the emitter's job (per spec.md §1's Non-goals) is to produce
// dialect-correct shapes, not to optimize or format the output.
func Render(w *strings.Builder, n Node) error {
	switch t := n.(type) {
	case Skip:
		return nil
	case Line:
		w.WriteString(t.Text)
		return nil
	case Raw:
		w.WriteString(t.Text)
		return nil
	case Lit:
		return renderLit(w, t)
	case Ident:
		w.WriteString(t.Name)
		return nil
	case BinOp:
		w.WriteByte('(')
		if err := Render(w, t.Left); err != nil {
			return err
		}
		fmt.Fprintf(w, " %s ", t.Op)
		if err := Render(w, t.Right); err != nil {
			return err
		}
		w.WriteByte(')')
		return nil
	case UnOp:
		w.WriteString(t.Op)
		return Render(w, t.Operand)
	case MemberAccess:
		if err := Render(w, t.Target); err != nil {
			return err
		}
		if t.Computed {
			w.WriteByte('[')
			if err := Render(w, t.Property); err != nil {
				return err
			}
			w.WriteByte(']')
			return nil
		}
		w.WriteByte('.')
		return Render(w, t.Property)
	case Call:
		if err := Render(w, t.Callee); err != nil {
			return err
		}
		return renderArgs(w, t.Args)
	case NewExpr:
		w.WriteString("new ")
		if err := Render(w, t.Target); err != nil {
			return err
		}
		return renderArgs(w, t.Args)
	case Function:
		return renderFunction(w, t)
	case ClassNode:
		return renderClass(w, t)
	case MethodDef:
		return renderMethodDef(w, t)
	case GetterDef:
		fmt.Fprintf(w, "get %s() ", t.Name)
		return renderBlockStmts(w, t.Body)
	case SetterDef:
		fmt.Fprintf(w, "set %s(%s) ", t.Name, t.Param)
		return renderBlockStmts(w, t.Body)
	case Block:
		return renderBlockStmts(w, t.Stmts)
	case If:
		return renderIf(w, t)
	case Return:
		w.WriteString("return")
		if t.Value != nil {
			w.WriteByte(' ')
			if err := Render(w, t.Value); err != nil {
				return err
			}
		}
		w.WriteByte(';')
		return nil
	case Throw:
		w.WriteString("throw ")
		if err := Render(w, t.Value); err != nil {
			return err
		}
		w.WriteByte(';')
		return nil
	case Assign:
		if err := Render(w, t.Target); err != nil {
			return err
		}
		fmt.Fprintf(w, " %s ", t.Op)
		if err := Render(w, t.Value); err != nil {
			return err
		}
		w.WriteByte(';')
		return nil
	case VarDecl:
		return renderVarDecl(w, t)
	case ObjectCons:
		return renderObject(w, t)
	case ArrayCons:
		return renderArray(w, t)
	case DocComment:
		fmt.Fprintf(w, "/** %s */", t.Text)
		return nil
	case ExprStmt:
		if err := Render(w, t.Expr); err != nil {
			return err
		}
		w.WriteByte(';')
		return nil
	case CommaSeq:
		w.WriteByte('(')
		for i, e := range t.Exprs {
			if i > 0 {
				w.WriteString(", ")
			}
			if err := Render(w, e); err != nil {
				return err
			}
		}
		w.WriteByte(')')
		return nil
	default:
		return fmt.Errorf("jstree: unrenderable node type %T", n)
	}
}

func renderLit(w *strings.Builder, t Lit) error {
	switch v := t.Value.(type) {
	case nil:
		w.WriteString("null")
	case Undefined:
		w.WriteString("undefined")
	case bool:
		w.WriteString(strconv.FormatBool(v))
	case string:
		w.WriteString(strconv.Quote(v))
	case int:
		w.WriteString(strconv.Itoa(v))
	case int32:
		w.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		w.WriteString(strconv.FormatInt(v, 10))
	case float64:
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return fmt.Errorf("jstree: unsupported literal value %T", v)
	}
	return nil
}

func renderArgs(w *strings.Builder, args []Node) error {
	w.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			w.WriteString(", ")
		}
		if err := Render(w, a); err != nil {
			return err
		}
	}
	w.WriteByte(')')
	return nil
}

func renderFunction(w *strings.Builder, t Function) error {
	if t.Arrow {
		w.WriteByte('(')
		w.WriteString(strings.Join(t.Params, ", "))
		w.WriteString(") => ")
		return renderBlockStmts(w, t.Body)
	}
	w.WriteString("function ")
	w.WriteString(t.Name)
	w.WriteByte('(')
	w.WriteString(strings.Join(t.Params, ", "))
	w.WriteString(") ")
	return renderBlockStmts(w, t.Body)
}

func renderClass(w *strings.Builder, t ClassNode) error {
	fmt.Fprintf(w, "class %s", t.Name)
	if t.Super != nil {
		w.WriteString(" extends ")
		if err := Render(w, t.Super); err != nil {
			return err
		}
	}
	w.WriteString(" {\n")
	for _, m := range t.Members {
		if err := Render(w, m); err != nil {
			return err
		}
		w.WriteByte('\n')
	}
	w.WriteByte('}')
	return nil
}

func renderMethodDef(w *strings.Builder, t MethodDef) error {
	if t.Static {
		w.WriteString("static ")
	}
	if t.IsGetter {
		w.WriteString("get ")
	} else if t.IsSetter {
		w.WriteString("set ")
	}
	w.WriteString(t.Name)
	w.WriteByte('(')
	w.WriteString(strings.Join(t.Params, ", "))
	w.WriteString(") ")
	return renderBlockStmts(w, t.Body)
}

func renderBlockStmts(w *strings.Builder, stmts []Node) error {
	w.WriteString("{\n")
	for _, s := range stmts {
		if err := Render(w, s); err != nil {
			return err
		}
		w.WriteByte('\n')
	}
	w.WriteByte('}')
	return nil
}

func renderIf(w *strings.Builder, t If) error {
	w.WriteString("if (")
	if err := Render(w, t.Cond); err != nil {
		return err
	}
	w.WriteString(") ")
	if err := Render(w, t.Then); err != nil {
		return err
	}
	if t.Else != nil {
		w.WriteString(" else ")
		if err := Render(w, t.Else); err != nil {
			return err
		}
	}
	return nil
}

func renderVarDecl(w *strings.Builder, t VarDecl) error {
	switch t.Kind {
	case VarLet:
		w.WriteString("let ")
	case VarConst:
		w.WriteString("const ")
	default:
		w.WriteString("var ")
	}
	w.WriteString(t.Name)
	if t.Init != nil {
		w.WriteString(" = ")
		if err := Render(w, t.Init); err != nil {
			return err
		}
	}
	w.WriteByte(';')
	return nil
}

func renderObject(w *strings.Builder, t ObjectCons) error {
	w.WriteString("{")
	for i, p := range t.Props {
		if i > 0 {
			w.WriteString(", ")
		}
		if p.Computed {
			w.WriteByte('[')
			w.WriteString(p.Key)
			w.WriteByte(']')
		} else {
			w.WriteString(strconv.Quote(p.Key))
		}
		w.WriteString(": ")
		if err := Render(w, p.Value); err != nil {
			return err
		}
	}
	w.WriteString("}")
	return nil
}

func renderArray(w *strings.Builder, t ArrayCons) error {
	w.WriteByte('[')
	for i, e := range t.Elems {
		if i > 0 {
			w.WriteString(", ")
		}
		if err := Render(w, e); err != nil {
			return err
		}
	}
	w.WriteByte(']')
	return nil
}
