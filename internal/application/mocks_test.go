package application_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// --- Mock implementations ---

// fakeBeneficiaryStore is an in-memory BeneficiaryStore that mimics the SQL
// adapter's sentinel errors.
type fakeBeneficiaryStore struct {
	rows      map[string]model.Beneficiary
	err       error
	createErr error
	updates   int
}

func newFakeBeneficiaryStore() *fakeBeneficiaryStore {
	return &fakeBeneficiaryStore{rows: map[string]model.Beneficiary{}}
}

func (f *fakeBeneficiaryStore) Create(_ context.Context, b model.Beneficiary) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.rows[b.Rut]; ok {
		return fmt.Errorf("create beneficiary %s: %w", b.Rut, driven.ErrDuplicateKey)
	}
	f.rows[b.Rut] = b
	return nil
}

func (f *fakeBeneficiaryStore) GetByRut(_ context.Context, rut string) (*model.Beneficiary, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.rows[rut]
	if !ok {
		return nil, fmt.Errorf("get beneficiary %s: %w", rut, driven.ErrNotFound)
	}
	return &b, nil
}

func (f *fakeBeneficiaryStore) UpdateProfile(_ context.Context, rut, name, tier string) error {
	if f.err != nil {
		return f.err
	}
	b, ok := f.rows[rut]
	if !ok {
		return fmt.Errorf("update beneficiary %s: %w", rut, driven.ErrNotFound)
	}
	f.updates++
	b.Name, b.Tier = name, tier
	f.rows[rut] = b
	return nil
}

type mockPhysicianStore struct {
	physicians  []model.Physician
	communes    []string
	specialties []string
	err         error
	communesErr error
	gotFilter   model.PhysicianFilter
}

func (m *mockPhysicianStore) Search(_ context.Context, f model.PhysicianFilter) ([]model.Physician, error) {
	m.gotFilter = f
	return m.physicians, m.err
}

func (m *mockPhysicianStore) ListCommunes(_ context.Context) ([]string, error) {
	return m.communes, m.communesErr
}

func (m *mockPhysicianStore) ListSpecialties(_ context.Context) ([]string, error) {
	return m.specialties, nil
}

func (m *mockPhysicianStore) Upsert(_ context.Context, _ ...model.Physician) error { return nil }

type mockVoucherStore struct {
	created   []model.Voucher
	listed    []model.Voucher
	createErr error
	listErr   error
}

func (m *mockVoucherStore) Create(_ context.Context, v model.Voucher) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, v)
	return nil
}

func (m *mockVoucherStore) ListByBeneficiary(_ context.Context, _ string) ([]model.Voucher, error) {
	return m.listed, m.listErr
}

// --- Test helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testDay = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func fakeRow(rut, name, tier, password string) model.Beneficiary {
	return model.Beneficiary{Rut: rut, Name: name, Tier: tier, Password: password}
}
