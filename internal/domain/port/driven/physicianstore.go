package driven

import (
	"context"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// PhysicianStore defines the driven port for physician lookups.
type PhysicianStore interface {
	// Search returns the physicians matching every predicate set in filter,
	// ordered by name ascending.
	Search(ctx context.Context, filter model.PhysicianFilter) ([]model.Physician, error)

	// ListCommunes returns the distinct communes of all physicians, ascending.
	ListCommunes(ctx context.Context) ([]string, error)

	// ListSpecialties returns the distinct specialties of all physicians, ascending.
	ListSpecialties(ctx context.Context) ([]string, error)

	// Upsert inserts or replaces physicians in one transaction: either every
	// row is written or none is. Used by the seeding command.
	Upsert(ctx context.Context, physicians ...model.Physician) error
}
