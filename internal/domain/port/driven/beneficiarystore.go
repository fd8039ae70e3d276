package driven

import (
	"context"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// BeneficiaryStore defines the driven port for beneficiary persistence.
// GetByRut and UpdateProfile return ErrNotFound when the RUT is unknown.
// Create returns ErrDuplicateKey when the RUT is already registered.
type BeneficiaryStore interface {
	Create(ctx context.Context, b model.Beneficiary) error
	GetByRut(ctx context.Context, rut string) (*model.Beneficiary, error)
	UpdateProfile(ctx context.Context, rut, name, tier string) error
}
