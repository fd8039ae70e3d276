package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

func validPurchase() application.Purchase {
	return application.Purchase{
		ID:           "B-100",
		IssueDate:    "2026-10-19",
		Description:  "Control anual",
		Total:        "30000",
		Copay:        "12000",
		Payable:      "18000",
		PhysicianRut: "11-1",
	}
}

func TestVoucherService_Purchase(t *testing.T) {
	store := &mockVoucherStore{}
	svc := application.NewVoucherService(store, discardLogger())

	v, err := svc.Purchase(context.Background(), "1-9", validPurchase())
	require.NoError(t, err)

	want := model.Voucher{
		ID:             "B-100",
		IssueDate:      testDay,
		Description:    "Control anual",
		TotalAmount:    30000,
		CopayAmount:    12000,
		PayableAmount:  18000,
		BeneficiaryRut: "1-9",
		PhysicianRut:   "11-1",
	}
	assert.Equal(t, want, *v)
	require.Len(t, store.created, 1)
	assert.Equal(t, want, store.created[0])
}

func TestVoucherService_Purchase_DescriptionOptional(t *testing.T) {
	store := &mockVoucherStore{}
	svc := application.NewVoucherService(store, discardLogger())

	in := validPurchase()
	in.Description = "   "
	v, err := svc.Purchase(context.Background(), "1-9", in)
	require.NoError(t, err)
	assert.Equal(t, "", v.Description)
}

func TestVoucherService_Purchase_Validation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(p *application.Purchase)
		wantMissing []string
		wantInvalid []string
	}{
		{
			name:        "blank id",
			mutate:      func(p *application.Purchase) { p.ID = " " },
			wantMissing: []string{"id_bono"},
		},
		{
			name: "several blanks",
			mutate: func(p *application.Purchase) {
				p.IssueDate, p.Payable, p.PhysicianRut = "", "", "\t"
			},
			wantMissing: []string{"fecha_emision", "valor_apagar", "rut_medico"},
		},
		{
			name:        "bad date",
			mutate:      func(p *application.Purchase) { p.IssueDate = "19/10/2026" },
			wantInvalid: []string{"fecha_emision"},
		},
		{
			name: "bad amounts",
			mutate: func(p *application.Purchase) {
				p.Total, p.Copay = "treinta", "-5"
			},
			wantInvalid: []string{"valor_total", "valor_copago"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockVoucherStore{}
			svc := application.NewVoucherService(store, discardLogger())

			in := validPurchase()
			tt.mutate(&in)
			_, err := svc.Purchase(context.Background(), "1-9", in)

			var verr *application.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMissing, verr.Missing)
			assert.Equal(t, tt.wantInvalid, verr.Invalid)
			assert.Empty(t, store.created)
		})
	}
}

func TestVoucherService_Purchase_StoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{
			name:     "duplicate id",
			storeErr: fmt.Errorf("create voucher B-100: %w", driven.ErrDuplicateKey),
			wantErr:  application.ErrDuplicateKey,
		},
		{
			name:     "foreign key failure",
			storeErr: errors.New("FOREIGN KEY constraint failed"),
			wantErr:  application.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := application.NewVoucherService(&mockVoucherStore{createErr: tt.storeErr}, discardLogger())
			_, err := svc.Purchase(context.Background(), "1-9", validPurchase())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVoucherService_List(t *testing.T) {
	t.Run("no vouchers is an empty list", func(t *testing.T) {
		svc := application.NewVoucherService(&mockVoucherStore{}, discardLogger())
		got, err := svc.List(context.Background(), "1-9")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store failure degrades to empty list", func(t *testing.T) {
		svc := application.NewVoucherService(&mockVoucherStore{listErr: errors.New("boom")}, discardLogger())
		got, err := svc.List(context.Background(), "1-9")
		assert.ErrorIs(t, err, application.ErrPersistence)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
