package discovery

import "fmt"

// Error reports that a module could not be enumerated or introspected. The
// failing module path travels with the error so callers can log it with
// context; the underlying cause stays reachable through Unwrap.
type Error struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("discovering extensions in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
