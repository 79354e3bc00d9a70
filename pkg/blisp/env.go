package blisp

import (
	"io"
	"log/slog"
)

type binding struct {
	name  string
	value *Value
}

// Env binds symbol names to Values. Values are copied on the way in and on
// the way out so callers never share structure with the environment.
type Env struct {
	bindings []binding
	logger   *slog.Logger
}

// NewEnv returns an empty environment. A nil logger discards output.
func NewEnv(logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Env{
		logger: logger.WithGroup("env"),
	}
}

// NewDefaultEnv returns an environment holding the default builtins.
func NewDefaultEnv(logger *slog.Logger) *Env {
	env := NewEnv(logger)
	env.AddBuiltins()
	return env
}

// Get returns a copy of the value bound to name, or an unbound symbol error.
func (e *Env) Get(name string) *Value {
	for i := range e.bindings {
		if e.bindings[i].name == name {
			return e.bindings[i].value.Copy()
		}
	}
	return Err(ErrUnboundSymbol)
}

// Put binds a copy of v to name, replacing any previous binding.
func (e *Env) Put(name string, v *Value) {
	for i := range e.bindings {
		if e.bindings[i].name == name {
			e.bindings[i].value = v.Copy()
			e.logger.Debug("rebound symbol", "name", name, "type", v.Type.String())
			return
		}
	}
	e.bindings = append(e.bindings, binding{name: name, value: v.Copy()})
	e.logger.Debug("bound symbol", "name", name, "type", v.Type.String())
}

// AddBuiltin binds a callable wrapping fn to name.
func (e *Env) AddBuiltin(name string, fn Builtin) {
	e.Put(name, Fun(name, fn))
}

// AddBuiltins binds every builtin in defs, or the default catalog when defs
// is empty.
func (e *Env) AddBuiltins(defs ...BuiltinDef) {
	if len(defs) == 0 {
		defs = DefaultBuiltins()
	}
	for _, def := range defs {
		e.AddBuiltin(def.Name, def.Fn)
	}
}

// Names returns the bound names in binding order.
func (e *Env) Names() []string {
	names := make([]string, len(e.bindings))
	for i := range e.bindings {
		names[i] = e.bindings[i].name
	}
	return names
}

func (e *Env) Len() int {
	return len(e.bindings)
}
