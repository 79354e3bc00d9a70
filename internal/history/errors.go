package history

import "fmt"

type ErrInvalidUser struct {
	User string
}

func (e *ErrInvalidUser) Error() string {
	return fmt.Sprintf("invalid history user: %q", e.User)
}

type ErrInternal struct {
	Err error
}

func (e *ErrInternal) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *ErrInternal) Unwrap() error {
	return e.Err
}
