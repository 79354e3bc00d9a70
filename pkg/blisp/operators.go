package blisp

// foldFn combines the accumulator with the next argument. A non-empty
// message aborts the fold with an error Value.
type foldFn func(x, y int64) (int64, string)

// numFold applies fn left to right over the numeric arguments in args.
func numFold(args *Value, fn foldFn) *Value {
	if args.Len() == 0 {
		return Err(ErrTooFewArgs)
	}
	for _, c := range args.Cells {
		if c.Type != TypeNum {
			args.Cells = nil
			return Err(ErrNonNumber)
		}
	}

	x := args.PopAt(0)
	for args.Len() > 0 {
		y := args.PopAt(0)
		n, msg := fn(x.Num, y.Num)
		if msg != "" {
			args.Cells = nil
			return Err(msg)
		}
		x.Num = n
	}
	return x
}

func builtinAdd(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) { return x + y, "" })
}

// builtinSub negates a single argument and subtracts otherwise.
func builtinSub(env *Env, args *Value) *Value {
	if args.Len() == 1 && args.Cells[0].Type == TypeNum {
		x := args.TakeAt(0)
		x.Num = -x.Num
		return x
	}
	return numFold(args, func(x, y int64) (int64, string) { return x - y, "" })
}

func builtinMul(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) { return x * y, "" })
}

func builtinDiv(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) {
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, ""
	})
}

func builtinMod(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) {
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x % y, ""
	})
}

func builtinPow(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) {
		n, ok := intPow(x, y)
		if !ok {
			return 0, ErrDivisionByZero
		}
		return n, ""
	})
}

// builtinMax keeps the accumulator on ties.
func builtinMax(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) {
		if x < y {
			return y, ""
		}
		return x, ""
	})
}

// builtinMin keeps the accumulator on ties.
func builtinMin(env *Env, args *Value) *Value {
	return numFold(args, func(x, y int64) (int64, string) {
		if y < x {
			return y, ""
		}
		return x, ""
	})
}

// intPow computes base**exp with wrapping integer arithmetic. A negative
// exponent truncates like 1/(base**-exp); ok is false when that divides by
// zero.
func intPow(base, exp int64) (n int64, ok bool) {
	if exp < 0 {
		switch base {
		case 0:
			return 0, false
		case 1:
			return 1, true
		case -1:
			if exp%2 == 0 {
				return 1, true
			}
			return -1, true
		default:
			return 0, true
		}
	}

	n = 1
	for exp > 0 {
		if exp&1 == 1 {
			n *= base
		}
		base *= base
		exp >>= 1
	}
	return n, true
}
