package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driven/sqlstore"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

const sampleSeed = `
medicos:
  - rut: 11-1
    nombre: Pedro Soto
    especialidad: Cardiología
    comuna: Providencia
  - rut: 22-2
    nombre: " Carla Muñoz "
    especialidad: Pediatría
    comuna: Ñuñoa
`

func TestLoadPhysicians(t *testing.T) {
	got, err := loadPhysicians(strings.NewReader(sampleSeed))

	require.NoError(t, err)
	assert.Equal(t, []model.Physician{
		{Rut: "11-1", Name: "Pedro Soto", Specialty: "Cardiología", Commune: "Providencia"},
		{Rut: "22-2", Name: "Carla Muñoz", Specialty: "Pediatría", Commune: "Ñuñoa"},
	}, got)
}

func TestLoadPhysicians_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "missing fields",
			input:   "medicos:\n  - rut: 11-1\n    nombre: Pedro\n",
			wantErr: "medicos[0]: missing especialidad, comuna",
		},
		{
			name: "duplicate rut",
			input: "medicos:\n" +
				"  - {rut: 11-1, nombre: A, especialidad: B, comuna: C}\n" +
				"  - {rut: 11-1, nombre: D, especialidad: E, comuna: F}\n",
			wantErr: "medicos[1]: duplicate rut 11-1",
		},
		{
			name:    "unknown key",
			input:   "medicos:\n  - {rut: 11-1, nombre: A, especialidad: B, comuna: C, telefono: 123}\n",
			wantErr: "decode yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadPhysicians(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPhysicians_EmptyFile(t *testing.T) {
	got, err := loadPhysicians(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeedCommand_UpsertsIntoDatabase(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "medicos.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(sampleSeed), 0o600))
	dbPath := filepath.Join(dir, "portal.db")

	for range 2 {
		var out bytes.Buffer
		cmd := rootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"seed", "--file", seedPath, "--database-url", "sqlite://" + dbPath})

		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Equal(t, "2 physicians seeded\n", out.String())
	}

	db, err := sqlstore.Open(context.Background(), "sqlite://"+dbPath)
	require.NoError(t, err)
	defer db.Close()

	got, err := sqlstore.NewPhysicianRepo(db).Search(context.Background(), model.PhysicianFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2, "seeding twice does not duplicate rows")
	assert.Equal(t, "Carla Muñoz", got[0].Name)
}

// batchStore records Upsert batches and fails them when err is set.
type batchStore struct {
	driven.PhysicianStore
	batches [][]model.Physician
	err     error
}

func (s *batchStore) Upsert(_ context.Context, physicians ...model.Physician) error {
	s.batches = append(s.batches, physicians)
	return s.err
}

func TestSeedPhysicians_WritesOneBatch(t *testing.T) {
	list := []model.Physician{
		{Rut: "11-1", Name: "Pedro Soto", Specialty: "Cardiología", Commune: "Providencia"},
		{Rut: "22-2", Name: "Carla Muñoz", Specialty: "Pediatría", Commune: "Ñuñoa"},
	}

	t.Run("success", func(t *testing.T) {
		store := &batchStore{}
		n, err := seedPhysicians(context.Background(), store, list)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, [][]model.Physician{list}, store.batches)
	})

	t.Run("failure reports nothing written", func(t *testing.T) {
		store := &batchStore{err: errors.New("disk full")}
		n, err := seedPhysicians(context.Background(), store, list)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.Len(t, store.batches, 1)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "portalctl version dev\n", out.String())
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL required")
}
