package reader

import "errors"

// Error represents a reader error with optional metadata.
type Error struct {
	Err error
	// Offset is the byte position where reading stopped.
	Offset int
	// Missing counts the lists left open at the end of input.
	Missing    int
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(offset int, err error) *Error {
	return &Error{Err: err, Offset: offset}
}

func newIncompleteError(offset int, err error) *Error {
	return &Error{
		Err:        err,
		Offset:     offset,
		Incomplete: true,
	}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Incomplete
	}
	return false
}
