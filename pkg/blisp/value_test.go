package blisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Value {
	return SExpr(
		Sym("+"),
		Num(1),
		QExpr(Num(2), SExpr(Sym("x"), Err("boom"))),
		Fun("head", builtinHead),
	)
}

func TestValue_String(t *testing.T) {
	testCases := []struct {
		v        *Value
		expected string
	}{
		{Num(42), "42"},
		{Num(-3), "-3"},
		{Err("oops"), "Error: oops"},
		{Sym("head"), "head"},
		{SExpr(), "()"},
		{QExpr(), "{}"},
		{Fun("+", builtinAdd), "<function>"},
		{sample(), "(+ 1 {2 (x Error: boom)} <function>)"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.v.String())
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "function", TypeFun.String())
	assert.Equal(t, "number", TypeNum.String())
	assert.Equal(t, "error", TypeErr.String())
	assert.Equal(t, "symbol", TypeSym.String())
	assert.Equal(t, "sexpr", TypeSExpr.String())
	assert.Equal(t, "qexpr", TypeQExpr.String())
	assert.Equal(t, "type(99)", Type(99).String())
}

func TestValue_PopAt(t *testing.T) {
	v := QExpr(Num(0), Num(1), Num(2), Num(3))

	x := v.PopAt(1)
	assert.Equal(t, "1", x.String())
	assert.Equal(t, "{0 2 3}", v.String())

	x = v.PopAt(2)
	assert.Equal(t, "3", x.String())
	assert.Equal(t, "{0 2}", v.String())

	x = v.PopAt(0)
	assert.Equal(t, "0", x.String())
	assert.Equal(t, "{2}", v.String())

	x = v.PopAt(5)
	assert.Equal(t, TypeErr, x.Type)
	assert.Equal(t, ErrIndexOutOfRange, x.Err)
	assert.Equal(t, "{2}", v.String())

	x = v.PopAt(-1)
	assert.Equal(t, ErrIndexOutOfRange, x.Err)
}

func TestValue_TakeAt(t *testing.T) {
	v := SExpr(Num(1), Num(2), Num(3))
	x := v.TakeAt(1)
	assert.Equal(t, "2", x.String())
	assert.Empty(t, v.Cells)
}

func TestValue_CopyIsDeep(t *testing.T) {
	orig := sample()
	cp := orig.Copy()
	require.True(t, orig.Equal(cp))
	assert.Equal(t, orig.String(), cp.String())

	seen := map[*Value]bool{}
	orig.Walk(func(v *Value) { seen[v] = true })
	cp.Walk(func(v *Value) {
		assert.False(t, seen[v], "copy shares node %s with its source", v)
	})

	// error and symbol text is carried over, not just the tag
	inner := cp.Cells[2].Cells[1]
	assert.Equal(t, "x", inner.Cells[0].Sym)
	assert.Equal(t, "boom", inner.Cells[1].Err)

	cp.Cells[2].Cells[0].Num = 99
	cp.Cells[2].PopAt(1)
	assert.Equal(t, "(+ 1 {2 (x Error: boom)} <function>)", orig.String())
}

func TestValue_WalkVisitsEveryNodeOnce(t *testing.T) {
	v := sample()
	visits := map[*Value]int{}
	v.Walk(func(n *Value) { visits[n]++ })

	assert.Len(t, visits, 9)
	for n, count := range visits {
		assert.Equal(t, 1, count, "node %s", n)
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Num(1).Equal(Num(1)))
	assert.False(t, Num(1).Equal(Num(2)))
	assert.False(t, Num(1).Equal(Sym("1")))
	assert.False(t, SExpr(Num(1)).Equal(QExpr(Num(1))))
	assert.False(t, QExpr(Num(1)).Equal(QExpr(Num(1), Num(2))))
	assert.True(t, Fun("+", builtinAdd).Equal(Fun("+", builtinAdd)))
	assert.False(t, Fun("+", builtinAdd).Equal(Fun("add", builtinAdd)))
	assert.True(t, (*Value)(nil).Equal(nil))
	assert.False(t, Num(1).Equal(nil))
}

func TestValue_Add(t *testing.T) {
	v := QExpr().Add(Num(1)).Add(Sym("a"))
	assert.Equal(t, 2, v.Len())
	assert.True(t, v.IsList())
	assert.False(t, Num(1).IsList())
	assert.Equal(t, "{1 a}", v.String())
}
