package blisp

// Eval reduces v to normal form. Symbols are looked up, expression lists
// are applied, everything else evaluates to itself. Eval consumes v.
func (e *Env) Eval(v *Value) *Value {
	switch v.Type {
	case TypeSym:
		return e.Get(v.Sym)
	case TypeSExpr:
		return e.EvalSExpr(v)
	default:
		return v
	}
}

// EvalSExpr evaluates the children of v left to right and applies the first
// one to the rest. The first error among the children becomes the result.
func (e *Env) EvalSExpr(v *Value) *Value {
	for i := range v.Cells {
		v.Cells[i] = e.Eval(v.Cells[i])
	}

	for i := range v.Cells {
		if v.Cells[i].Type == TypeErr {
			return v.TakeAt(i)
		}
	}

	switch len(v.Cells) {
	case 0:
		return v
	case 1:
		return v.TakeAt(0)
	}

	f := v.PopAt(0)
	if f.Type != TypeFun || f.Fun == nil {
		v.Cells = nil
		return Err(ErrNotAFunction)
	}

	e.logger.Debug("apply", "fn", f.Name, "argc", len(v.Cells))
	return f.Fun(e, v)
}
