package handletable

import "errors"

// Fatal precondition violations panic with one of these sentinels wrapped
// with context. They mark programmer errors with no recovery path, as
// distinct from the soft "stale handle" case, which Get reports by returning
// nil.
var (
	// ErrTableExhausted is the panic value when an acquisition would push the
	// table past the maximum index addressable by its handle width.
	ErrTableExhausted = errors.New("handletable: max table capacity reached")

	// ErrInvalidHandle is the panic value when a handle presented to Release
	// is out of range or carries a version that does not match its slot.
	ErrInvalidHandle = errors.New("handletable: invalid handle")

	// ErrIndexOutOfRange is the panic value when an index-addressed operation
	// is given an index at or beyond the current table length.
	ErrIndexOutOfRange = errors.New("handletable: index out of range")

	// ErrNilObject is the panic value when Acquire is given a nil pointer.
	// An occupied slot is distinguished from an empty one by its pointer, so
	// nil can never be stored.
	ErrNilObject = errors.New("handletable: nil object")
)
