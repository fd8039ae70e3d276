package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Purchase is the raw input of the purchase confirmation form. The buyer is
// deliberately absent: it always comes from the session.
type Purchase struct {
	ID           string
	IssueDate    string
	Description  string
	Total        string
	Copay        string
	Payable      string
	PhysicianRut string
}

// VoucherService creates and lists vouchers.
type VoucherService struct {
	vouchers driven.VoucherStore
	logger   *slog.Logger
}

// NewVoucherService creates a VoucherService with the required dependencies.
func NewVoucherService(vouchers driven.VoucherStore, logger *slog.Logger) *VoucherService {
	return &VoucherService{
		vouchers: vouchers,
		logger:   logger,
	}
}

// Purchase validates the form and stores the voucher for beneficiaryRut.
// Every field but the description is required; the date must be YYYY-MM-DD
// and the amounts non-negative integers. A taken id yields ErrDuplicateKey and
// any other store failure ErrPersistence.
func (s *VoucherService) Purchase(ctx context.Context, beneficiaryRut string, in Purchase) (*model.Voucher, error) {
	in = Purchase{
		ID:           strings.TrimSpace(in.ID),
		IssueDate:    strings.TrimSpace(in.IssueDate),
		Description:  strings.TrimSpace(in.Description),
		Total:        strings.TrimSpace(in.Total),
		Copay:        strings.TrimSpace(in.Copay),
		Payable:      strings.TrimSpace(in.Payable),
		PhysicianRut: strings.TrimSpace(in.PhysicianRut),
	}

	err := requireFields(
		field{"id_bono", in.ID},
		field{"fecha_emision", in.IssueDate},
		field{"valor_total", in.Total},
		field{"valor_copago", in.Copay},
		field{"valor_apagar", in.Payable},
		field{"rut_medico", in.PhysicianRut},
	)
	if err != nil {
		return nil, err
	}

	v, err := parsePurchase(in)
	if err != nil {
		return nil, err
	}
	v.BeneficiaryRut = beneficiaryRut

	if err := s.vouchers.Create(ctx, *v); err != nil {
		if errors.Is(err, driven.ErrDuplicateKey) {
			return nil, fmt.Errorf("purchase voucher %s: %w", v.ID, ErrDuplicateKey)
		}
		s.logger.Error("failed to store voucher", "id_bono", v.ID, "rut", beneficiaryRut, "error", err)
		return nil, fmt.Errorf("purchase voucher %s: %w: %w", v.ID, ErrPersistence, err)
	}

	return v, nil
}

// parsePurchase converts the trimmed, non-blank form values.
func parsePurchase(in Purchase) (*model.Voucher, error) {
	var invalid []string

	issueDate, err := time.Parse(model.IssueDateLayout, in.IssueDate)
	if err != nil {
		invalid = append(invalid, "fecha_emision")
	}

	amount := func(name, raw string) int64 {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			invalid = append(invalid, name)
			return 0
		}
		return n
	}
	total := amount("valor_total", in.Total)
	copay := amount("valor_copago", in.Copay)
	payable := amount("valor_apagar", in.Payable)

	if len(invalid) > 0 {
		return nil, &ValidationError{Invalid: invalid}
	}

	return &model.Voucher{
		ID:            in.ID,
		IssueDate:     issueDate,
		Description:   in.Description,
		TotalAmount:   total,
		CopayAmount:   copay,
		PayableAmount: payable,
		PhysicianRut:  in.PhysicianRut,
	}, nil
}

// List returns the beneficiary's vouchers, newest first. On store failure it
// still returns an empty, non-nil slice together with an ErrPersistence error
// so the page can render a notice instead of failing.
func (s *VoucherService) List(ctx context.Context, beneficiaryRut string) ([]model.Voucher, error) {
	vouchers, err := s.vouchers.ListByBeneficiary(ctx, beneficiaryRut)
	if err != nil {
		s.logger.Error("failed to list vouchers", "rut", beneficiaryRut, "error", err)
		return []model.Voucher{}, fmt.Errorf("list vouchers %s: %w: %w", beneficiaryRut, ErrPersistence, err)
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}
	return vouchers, nil
}
