package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VoucherStore = (*VoucherRepo)(nil)

// VoucherRepo is the SQL implementation of the VoucherStore port.
type VoucherRepo struct {
	db *DB
}

// NewVoucherRepo creates a new VoucherRepo backed by the given DB.
func NewVoucherRepo(db *DB) *VoucherRepo {
	return &VoucherRepo{db: db}
}

// Create inserts a voucher in its own transaction. A duplicate id returns
// driven.ErrDuplicateKey and leaves the existing row untouched; any other
// constraint failure (unknown physician, unknown beneficiary) is returned
// wrapped as is.
func (r *VoucherRepo) Create(ctx context.Context, v model.Voucher) error {
	query, args, err := r.db.sb.
		Insert("bono").
		Columns(
			"id_bono", "fecha_emision", "descripcion",
			"valor_total", "valor_copago", "valor_apagar",
			"rut_beneficiario", "rut_medico",
		).
		Values(
			v.ID, v.IssueDate.Format(model.IssueDateLayout), v.Description,
			v.TotalAmount, v.CopayAmount, v.PayableAmount,
			v.BeneficiaryRut, v.PhysicianRut,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert bono: %w", err)
	}

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create voucher %s: %w", v.ID, driven.ErrDuplicateKey)
		}
		return fmt.Errorf("create voucher %s: %w", v.ID, err)
	}

	return nil
}

// ListByBeneficiary returns the vouchers of a beneficiary, most recent issue
// date first. A beneficiary without vouchers yields an empty, non-nil slice.
func (r *VoucherRepo) ListByBeneficiary(ctx context.Context, rut string) ([]model.Voucher, error) {
	query, args, err := r.db.sb.
		Select(
			"id_bono", "fecha_emision", "descripcion",
			"valor_total", "valor_copago", "valor_apagar",
			"rut_beneficiario", "rut_medico",
		).
		From("bono").
		Where("rut_beneficiario = ?", rut).
		OrderBy("fecha_emision DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select bono: %w", err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers for %s: %w", rut, err)
	}
	defer rows.Close()

	vouchers := []model.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vouchers: %w", err)
	}

	return vouchers, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVoucher(s scanner) (*model.Voucher, error) {
	var v model.Voucher
	var issueDate string

	err := s.Scan(
		&v.ID, &issueDate, &v.Description,
		&v.TotalAmount, &v.CopayAmount, &v.PayableAmount,
		&v.BeneficiaryRut, &v.PhysicianRut,
	)
	if err != nil {
		return nil, err
	}

	v.IssueDate, err = parseDate(issueDate)
	if err != nil {
		return nil, fmt.Errorf("parse fecha_emision: %w", err)
	}

	return &v, nil
}

// parseDate accepts the ISO date the portal writes as well as the timestamp
// renderings drivers produce for DATE columns.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		model.IssueDateLayout,
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05 -0700 MST",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
