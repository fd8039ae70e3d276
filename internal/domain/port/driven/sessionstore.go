package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// SessionStore defines the driven port for server-side session state.
// Get and Update return ErrNotFound for unknown session ids.
type SessionStore interface {
	Create(ctx context.Context, s model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, id, name, tier string) error
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session that expired at or before now and
	// returns how many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
