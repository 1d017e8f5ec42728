package kerror

import "fmt"

// Error is a formatted error raised by kine components.
type Error struct {
	msg string
}

// New returns a new Error with the given format and arguments.
func New(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}
