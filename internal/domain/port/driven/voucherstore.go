package driven

import (
	"context"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// VoucherStore defines the driven port for voucher persistence.
// Create returns ErrDuplicateKey when the voucher id already exists; the
// existing row is never overwritten.
type VoucherStore interface {
	Create(ctx context.Context, v model.Voucher) error
	ListByBeneficiary(ctx context.Context, rut string) ([]model.Voucher, error)
}
