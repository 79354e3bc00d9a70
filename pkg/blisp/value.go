package blisp

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the variant tag of a Value.
type Type uint

const (
	TypeFun Type = iota
	TypeNum
	TypeErr
	TypeSym
	TypeSExpr
	TypeQExpr
)

var typeStrings = []string{
	TypeFun:   "function",
	TypeNum:   "number",
	TypeErr:   "error",
	TypeSym:   "symbol",
	TypeSExpr: "sexpr",
	TypeQExpr: "qexpr",
}

func (t Type) String() string {
	if int(t) >= len(typeStrings) {
		return fmt.Sprintf("type(%d)", uint(t))
	}
	return typeStrings[t]
}

// Value is a blisp runtime datum. A Value exclusively owns its Cells, so a
// tree of Values never shares nodes and never contains a cycle.
type Value struct {
	Type Type

	Num int64
	Err string
	Sym string

	// Fun is set for TypeFun, Name is the name it was registered under.
	Fun  Builtin
	Name string

	// Cells holds the children of TypeSExpr and TypeQExpr.
	Cells []*Value
}

// Num returns a number Value.
func Num(x int64) *Value {
	return &Value{Type: TypeNum, Num: x}
}

// Err returns an error Value carrying msg.
func Err(msg string) *Value {
	return &Value{Type: TypeErr, Err: msg}
}

// Errorf returns an error Value with a formatted message.
func Errorf(format string, v ...any) *Value {
	return &Value{Type: TypeErr, Err: fmt.Sprintf(format, v...)}
}

// Sym returns a symbol Value.
func Sym(s string) *Value {
	return &Value{Type: TypeSym, Sym: s}
}

// SExpr returns an expression list holding cells.
func SExpr(cells ...*Value) *Value {
	return &Value{Type: TypeSExpr, Cells: cells}
}

// QExpr returns a quoted list holding cells.
func QExpr(cells ...*Value) *Value {
	return &Value{Type: TypeQExpr, Cells: cells}
}

// Fun returns a callable wrapping fn.
func Fun(name string, fn Builtin) *Value {
	return &Value{Type: TypeFun, Name: name, Fun: fn}
}

func (v *Value) IsList() bool {
	return v.Type == TypeSExpr || v.Type == TypeQExpr
}

func (v *Value) Len() int {
	return len(v.Cells)
}

// Add appends x to the children of v and returns v.
func (v *Value) Add(x *Value) *Value {
	v.Cells = append(v.Cells, x)
	return v
}

// Copy returns a deep copy of v that shares no node with v.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}
	cp := &Value{}
	*cp = *v
	cp.Cells = nil
	if v.Cells != nil {
		cp.Cells = make([]*Value, len(v.Cells))
		for i := range v.Cells {
			cp.Cells[i] = v.Cells[i].Copy()
		}
	}
	return cp
}

// PopAt removes and returns the child at index i, keeping the order of the
// remaining children. v keeps ownership of everything else.
func (v *Value) PopAt(i int) *Value {
	if i < 0 || i >= len(v.Cells) {
		return Err(ErrIndexOutOfRange)
	}
	x := v.Cells[i]
	copy(v.Cells[i:], v.Cells[i+1:])
	v.Cells[len(v.Cells)-1] = nil
	v.Cells = v.Cells[:len(v.Cells)-1]
	return x
}

// TakeAt is PopAt followed by discarding v and its remaining children.
func (v *Value) TakeAt(i int) *Value {
	x := v.PopAt(i)
	v.Cells = nil
	return x
}

// Walk calls fn on v and then on every descendant, depth first.
func (v *Value) Walk(fn func(*Value)) {
	fn(v)
	for _, c := range v.Cells {
		c.Walk(fn)
	}
}

// Equal reports whether v and w are structurally equal. Callables compare
// by registered name.
func (v *Value) Equal(w *Value) bool {
	if v == nil || w == nil {
		return v == w
	}
	if v.Type != w.Type {
		return false
	}
	switch v.Type {
	case TypeNum:
		return v.Num == w.Num
	case TypeErr:
		return v.Err == w.Err
	case TypeSym:
		return v.Sym == w.Sym
	case TypeFun:
		return v.Name == w.Name
	default:
		if len(v.Cells) != len(w.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(w.Cells[i]) {
				return false
			}
		}
		return true
	}
}

func (v *Value) String() string {
	switch v.Type {
	case TypeFun:
		return "<function>"
	case TypeNum:
		return strconv.FormatInt(v.Num, 10)
	case TypeErr:
		return "Error: " + v.Err
	case TypeSym:
		return v.Sym
	case TypeSExpr:
		return exprString(v, "(", ")")
	case TypeQExpr:
		return exprString(v, "{", "}")
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func exprString(v *Value, open, close string) string {
	var b strings.Builder
	b.WriteString(open)
	for i, c := range v.Cells {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	b.WriteString(close)
	return b.String()
}
