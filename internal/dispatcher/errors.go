package dispatcher

import (
	"errors"
	"fmt"
)

// Error kinds wrapped by CommandError. Callers match them with
// errors.Is; the message carried by the CommandError is what the user
// sees.
var (
	// ErrNoTab means the window has no tab to act on
	ErrNoTab = errors.New("no tab available")
	// ErrNoSuchTab means an index or match resolved to nothing
	ErrNoSuchTab = errors.New("no such tab")
	// ErrNoSearch means a continuation was requested before any search
	ErrNoSearch = errors.New("no search done yet")
	// ErrUsage means the arguments are invalid as given
	ErrUsage = errors.New("invalid arguments")
)

// CommandError is the uniform failure outcome of a command. Expected
// failures are returned as values, never panicked.
type CommandError struct {
	msg  string
	kind error
}

func (e *CommandError) Error() string { return e.msg }
func (e *CommandError) Unwrap() error { return e.kind }

// cmdErr builds a CommandError of the given kind
func cmdErr(kind error, format string, args ...any) *CommandError {
	return &CommandError{msg: fmt.Sprintf(format, args...), kind: kind}
}

// wrapErr converts a collaborator error into a CommandError, passing
// CommandErrors through unchanged
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return err
	}
	return &CommandError{msg: err.Error(), kind: err}
}
