package assert

import "github.com/kinemotion/kine/kerror"

// IsTrue panics with a formatted error if ok is false. It is reserved for
// programmer errors that cannot be recovered from at runtime.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(kerror.New(message, args...))
	}
}
