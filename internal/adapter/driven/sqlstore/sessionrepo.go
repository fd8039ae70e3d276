package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQL implementation of the SessionStore port. Timestamps
// are stored as Unix seconds so expiry comparisons are engine independent.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo backed by the given DB.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) error {
	query, args, err := r.db.sb.
		Insert("sesion").
		Columns("id", "rut_beneficiario", "nombre", "tramo_ingreso", "created_at", "expires_at").
		Values(s.ID, s.BeneficiaryRut, s.Name, s.Tier, s.CreatedAt.Unix(), s.ExpiresAt.Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sesion: %w", err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("create session for %s: %w", s.BeneficiaryRut, err)
	}

	return nil
}

// Get retrieves a session by id. Returns driven.ErrNotFound if absent.
// Expiry is left to the caller.
func (r *SessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	query, args, err := r.db.sb.
		Select("id", "rut_beneficiario", "nombre", "tramo_ingreso", "created_at", "expires_at").
		From("sesion").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select sesion: %w", err)
	}

	var (
		s                    model.Session
		createdAt, expiresAt int64
	)
	err = r.db.Reader.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.BeneficiaryRut, &s.Name, &s.Tier, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session: %w", driven.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	return &s, nil
}

// Update rewrites the cached profile fields of a session. Returns
// driven.ErrNotFound if the session no longer exists.
func (r *SessionRepo) Update(ctx context.Context, id, name, tier string) error {
	query, args, err := r.db.sb.
		Update("sesion").
		Set("nombre", name).
		Set("tramo_ingreso", tier).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update sesion: %w", err)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update session: %w", driven.ErrNotFound)
		}

		return nil
	})
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.db.sb.Delete("sesion").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete sesion: %w", err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := r.db.sb.Delete("sesion").Where(sq.LtOrEq{"expires_at": now.Unix()}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sesion: %w", err)
	}

	var removed int64
	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return removed, nil
}
