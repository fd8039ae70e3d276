package application

import (
	"errors"
	"strings"
)

// Error taxonomy surfaced to the driving adapters. Every service error matches
// exactly one of these with errors.Is or errors.As.
var (
	// ErrNotFound indicates the referenced beneficiary or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates the supplied password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateKey indicates an insert collided with an existing identifier.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnauthenticated indicates a protected action was attempted without a session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrPersistence wraps any other store failure.
	ErrPersistence = errors.New("persistence error")
)

// ValidationError reports blank required inputs and inputs that could not be
// parsed. Field names are the form field names.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// field is a named, already trimmed input value.
type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every blank field, in order,
// or nil when all are present.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
