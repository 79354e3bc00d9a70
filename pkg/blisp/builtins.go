package blisp

// Builtin is a native operation. It receives the already evaluated
// arguments as one expression list and consumes it.
type Builtin func(env *Env, args *Value) *Value

// BuiltinDef names a Builtin for registration in an Env.
type BuiltinDef struct {
	Name string
	Fn   Builtin
}

var langBuiltins = []BuiltinDef{
	{"list", builtinList},
	{"head", builtinHead},
	{"tail", builtinTail},
	{"init", builtinInit},
	{"eval", builtinEval},
	{"join", builtinJoin},
	{"cons", builtinCons},
	{"len", builtinLen},

	{"+", builtinAdd},
	{"add", builtinAdd},
	{"-", builtinSub},
	{"sub", builtinSub},
	{"*", builtinMul},
	{"mul", builtinMul},
	{"/", builtinDiv},
	{"div", builtinDiv},
	{"%", builtinMod},
	{"mod", builtinMod},
	{"^", builtinPow},
	{"pow", builtinPow},
	{"max", builtinMax},
	{"min", builtinMin},
}

// DefaultBuiltins returns the builtins bound by Env.AddBuiltins when it is
// called without arguments.
func DefaultBuiltins() []BuiltinDef {
	defs := make([]BuiltinDef, len(langBuiltins))
	copy(defs, langBuiltins)
	return defs
}

// checkArgCount validates an exact argument count. A non-nil result is the
// error to return; args has already been discarded.
func checkArgCount(args *Value, n int) *Value {
	switch {
	case args.Len() < n:
		args.Cells = nil
		return Err(ErrTooFewArgs)
	case args.Len() > n:
		args.Cells = nil
		return Err(ErrTooManyArgs)
	}
	return nil
}

func checkType(args *Value, i int, t Type) *Value {
	if args.Cells[i].Type != t {
		args.Cells = nil
		return Err(ErrIncorrectType)
	}
	return nil
}

// checkListArg validates the single quoted list argument shared by head,
// tail, init, eval and len.
func checkListArg(args *Value, nonEmpty bool) *Value {
	if lerr := checkArgCount(args, 1); lerr != nil {
		return lerr
	}
	if lerr := checkType(args, 0, TypeQExpr); lerr != nil {
		return lerr
	}
	if nonEmpty && args.Cells[0].Len() == 0 {
		args.Cells = nil
		return Err(ErrEmptyList)
	}
	return nil
}

// builtinList relabels its arguments as a quoted list.
func builtinList(env *Env, args *Value) *Value {
	args.Type = TypeQExpr
	return args
}

func builtinHead(env *Env, args *Value) *Value {
	if lerr := checkListArg(args, true); lerr != nil {
		return lerr
	}
	v := args.TakeAt(0)
	v.Cells = v.Cells[:1:1]
	return v
}

func builtinTail(env *Env, args *Value) *Value {
	if lerr := checkListArg(args, true); lerr != nil {
		return lerr
	}
	v := args.TakeAt(0)
	v.PopAt(0)
	return v
}

func builtinInit(env *Env, args *Value) *Value {
	if lerr := checkListArg(args, true); lerr != nil {
		return lerr
	}
	v := args.TakeAt(0)
	v.PopAt(v.Len() - 1)
	return v
}

func builtinEval(env *Env, args *Value) *Value {
	if lerr := checkListArg(args, false); lerr != nil {
		return lerr
	}
	x := args.TakeAt(0)
	x.Type = TypeSExpr
	return env.Eval(x)
}

func builtinJoin(env *Env, args *Value) *Value {
	if args.Len() == 0 {
		return Err(ErrTooFewArgs)
	}
	for i := range args.Cells {
		if lerr := checkType(args, i, TypeQExpr); lerr != nil {
			return lerr
		}
	}

	x := args.PopAt(0)
	for args.Len() > 0 {
		y := args.PopAt(0)
		x.Cells = append(x.Cells, y.Cells...)
	}
	return x
}

func builtinCons(env *Env, args *Value) *Value {
	if lerr := checkArgCount(args, 2); lerr != nil {
		return lerr
	}
	if lerr := checkType(args, 1, TypeQExpr); lerr != nil {
		return lerr
	}

	v := args.PopAt(0)
	q := args.TakeAt(0)
	ret := QExpr(v)
	ret.Cells = append(ret.Cells, q.Cells...)
	return ret
}

func builtinLen(env *Env, args *Value) *Value {
	if lerr := checkListArg(args, false); lerr != nil {
		return lerr
	}
	return Num(int64(args.TakeAt(0).Len()))
}
