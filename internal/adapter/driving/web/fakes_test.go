package web_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// --- In-memory stores ---

type memBeneficiaryStore struct {
	rows map[string]model.Beneficiary
}

func (m *memBeneficiaryStore) Create(_ context.Context, b model.Beneficiary) error {
	if _, ok := m.rows[b.Rut]; ok {
		return fmt.Errorf("create beneficiary %s: %w", b.Rut, driven.ErrDuplicateKey)
	}
	m.rows[b.Rut] = b
	return nil
}

func (m *memBeneficiaryStore) GetByRut(_ context.Context, rut string) (*model.Beneficiary, error) {
	b, ok := m.rows[rut]
	if !ok {
		return nil, fmt.Errorf("get beneficiary %s: %w", rut, driven.ErrNotFound)
	}
	return &b, nil
}

func (m *memBeneficiaryStore) UpdateProfile(_ context.Context, rut, name, tier string) error {
	b, ok := m.rows[rut]
	if !ok {
		return fmt.Errorf("update beneficiary %s: %w", rut, driven.ErrNotFound)
	}
	b.Name, b.Tier = name, tier
	m.rows[rut] = b
	return nil
}

type memPhysicianStore struct {
	rows []model.Physician
}

func (m *memPhysicianStore) Search(_ context.Context, f model.PhysicianFilter) ([]model.Physician, error) {
	var out []model.Physician
	for _, p := range m.rows {
		if f.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameContains)) {
			continue
		}
		if f.RutContains != "" && !strings.Contains(strings.ToLower(p.Rut), strings.ToLower(f.RutContains)) {
			continue
		}
		if f.Specialty != "" && p.Specialty != f.Specialty {
			continue
		}
		if f.Commune != "" && p.Commune != f.Commune {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memPhysicianStore) distinct(get func(model.Physician) string) []string {
	out := []string{}
	for _, p := range m.rows {
		if v := get(p); !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memPhysicianStore) ListCommunes(_ context.Context) ([]string, error) {
	return m.distinct(func(p model.Physician) string { return p.Commune }), nil
}

func (m *memPhysicianStore) ListSpecialties(_ context.Context) ([]string, error) {
	return m.distinct(func(p model.Physician) string { return p.Specialty }), nil
}

func (m *memPhysicianStore) Upsert(_ context.Context, physicians ...model.Physician) error {
	m.rows = append(m.rows, physicians...)
	return nil
}

type memVoucherStore struct {
	rows      []model.Voucher
	listErr   error
	listCalls int
}

func (m *memVoucherStore) Create(_ context.Context, v model.Voucher) error {
	for _, existing := range m.rows {
		if existing.ID == v.ID {
			return fmt.Errorf("create voucher %s: %w", v.ID, driven.ErrDuplicateKey)
		}
	}
	m.rows = append(m.rows, v)
	return nil
}

func (m *memVoucherStore) ListByBeneficiary(_ context.Context, rut string) ([]model.Voucher, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Voucher
	for _, v := range m.rows {
		if v.BeneficiaryRut == rut {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	return out, nil
}

type memSessionStore struct {
	rows map[string]model.Session
}

func (m *memSessionStore) Create(_ context.Context, s model.Session) error {
	m.rows[s.ID] = s
	return nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get session %s: %w", id, driven.ErrNotFound)
	}
	return &s, nil
}

func (m *memSessionStore) Update(_ context.Context, id, name, tier string) error {
	s, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("update session %s: %w", id, driven.ErrNotFound)
	}
	s.Name, s.Tier = name, tier
	m.rows[id] = s
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.rows {
		if s.Expired(now) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}
