package blisp

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_GetPut(t *testing.T) {
	env := NewEnv(nil)

	v := env.Get("missing")
	require.Equal(t, TypeErr, v.Type)
	assert.Equal(t, ErrUnboundSymbol, v.Err)

	env.Put("x", Num(1))
	assert.Equal(t, "1", env.Get("x").String())

	env.Put("x", QExpr(Num(2)))
	assert.Equal(t, "{2}", env.Get("x").String())
	assert.Equal(t, 1, env.Len())
}

func TestEnv_CopyInCopyOut(t *testing.T) {
	env := NewEnv(nil)

	in := QExpr(Num(1), Num(2))
	env.Put("l", in)
	in.Cells[0].Num = 100
	in.Add(Num(3))
	assert.Equal(t, "{1 2}", env.Get("l").String())

	out := env.Get("l")
	out.PopAt(0)
	assert.Equal(t, "{2}", out.String())
	assert.Equal(t, "{1 2}", env.Get("l").String())

	assert.NotSame(t, env.Get("l"), env.Get("l"))
}

func TestEnv_NamesKeepBindingOrder(t *testing.T) {
	env := NewEnv(nil)
	env.Put("b", Num(1))
	env.Put("a", Num(2))
	env.Put("b", Num(3))
	assert.Equal(t, []string{"b", "a"}, env.Names())
}

func TestEnv_AddBuiltins(t *testing.T) {
	env := NewEnv(nil)
	env.AddBuiltins()

	expected := []string{
		"list", "head", "tail", "init", "eval", "join", "cons", "len",
		"+", "add", "-", "sub", "*", "mul", "/", "div", "%", "mod", "^", "pow", "max", "min",
	}
	assert.Equal(t, expected, env.Names())

	for _, name := range expected {
		v := env.Get(name)
		require.Equal(t, TypeFun, v.Type, name)
		assert.Equal(t, name, v.Name)
		assert.NotNil(t, v.Fun)
	}
}

func TestEnv_AddBuiltinsSubset(t *testing.T) {
	env := NewEnv(nil)
	env.AddBuiltins(BuiltinDef{Name: "first", Fn: builtinHead})
	assert.Equal(t, []string{"first"}, env.Names())

	v, err := env.EvalString("first {9 8}")
	require.NoError(t, err)
	assert.Equal(t, "{9}", v.String())

	v, err = env.EvalString("head {9 8}")
	require.NoError(t, err)
	assert.Equal(t, "Error: unbound symbol", v.String())
}

func TestDefaultBuiltins_ReturnsCopy(t *testing.T) {
	defs := DefaultBuiltins()
	defs[0].Name = "changed"
	assert.Equal(t, "list", DefaultBuiltins()[0].Name)
}

func TestEnv_LogsBindings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	env := NewEnv(logger)
	env.Put("x", Num(1))
	env.Put("x", Num(2))

	assert.Contains(t, buf.String(), "bound symbol")
	assert.Contains(t, buf.String(), "rebound symbol")
	assert.Contains(t, buf.String(), "env.name=x")
}
