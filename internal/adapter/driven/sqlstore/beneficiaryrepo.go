package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BeneficiaryStore = (*BeneficiaryRepo)(nil)

// BeneficiaryRepo is the SQL implementation of the BeneficiaryStore port.
type BeneficiaryRepo struct {
	db *DB
}

// NewBeneficiaryRepo creates a new BeneficiaryRepo backed by the given DB.
func NewBeneficiaryRepo(db *DB) *BeneficiaryRepo {
	return &BeneficiaryRepo{db: db}
}

// Create inserts a new beneficiary in its own transaction. Returns
// driven.ErrDuplicateKey if the RUT is already registered.
func (r *BeneficiaryRepo) Create(ctx context.Context, b model.Beneficiary) error {
	query, args, err := r.db.sb.
		Insert("beneficiario").
		Columns("rut", "nombre", "tramo_ingreso", "clave").
		Values(b.Rut, b.Name, b.Tier, b.Password).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert beneficiario: %w", err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create beneficiary %s: %w", b.Rut, driven.ErrDuplicateKey)
		}
		return fmt.Errorf("create beneficiary %s: %w", b.Rut, err)
	}

	return nil
}

// GetByRut retrieves a beneficiary. Returns driven.ErrNotFound if absent.
func (r *BeneficiaryRepo) GetByRut(ctx context.Context, rut string) (*model.Beneficiary, error) {
	query, args, err := r.db.sb.
		Select("rut", "nombre", "tramo_ingreso", "clave").
		From("beneficiario").
		Where("rut = ?", rut).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select beneficiario: %w", err)
	}

	var b model.Beneficiary
	err = r.db.Reader.QueryRowContext(ctx, query, args...).Scan(&b.Rut, &b.Name, &b.Tier, &b.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get beneficiary %s: %w", rut, driven.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get beneficiary %s: %w", rut, err)
	}

	return &b, nil
}

// UpdateProfile sets the name and income tier of a beneficiary in one
// transaction. Returns driven.ErrNotFound if no row matched.
func (r *BeneficiaryRepo) UpdateProfile(ctx context.Context, rut, name, tier string) error {
	query, args, err := r.db.sb.
		Update("beneficiario").
		Set("nombre", name).
		Set("tramo_ingreso", tier).
		Where("rut = ?", rut).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update beneficiario: %w", err)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update beneficiary %s: %w", rut, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update beneficiary %s: %w", rut, driven.ErrNotFound)
		}

		return nil
	})
}
