package driven

import "errors"

// Sentinel errors returned by store implementations. Adapters wrap them with
// context; callers match with errors.Is.
var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates an insert violated a primary key or unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)
