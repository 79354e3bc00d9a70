package blisp

// Messages carried by error Values. These are shown to users verbatim.
const (
	ErrUnboundSymbol   = "unbound symbol"
	ErrNotAFunction    = "first element is not a function"
	ErrDivisionByZero  = "Division By Zero!"
	ErrInvalidNumber   = "invalid number"
	ErrTooManyArgs     = "Function passed too many args!"
	ErrTooFewArgs      = "Function passed too few args!"
	ErrIncorrectType   = "Function called with incorrect type"
	ErrEmptyList       = "Function called on empty list"
	ErrNonNumber       = "Cannot operate on non-number!"
	ErrIndexOutOfRange = "index out of range"
)
