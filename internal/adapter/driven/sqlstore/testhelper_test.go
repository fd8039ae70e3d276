package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// setupTestDB opens a migrated in-memory SQLite database private to the test.
// The name is derived from t.Name() so shared-cache connections of parallel
// tests never meet; it is path-escaped so it cannot leak into the query string.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(t.Name()),
	)

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db), "run migrations")
	return db
}

// seedBeneficiary inserts a beneficiary or fails the test.
func seedBeneficiary(t *testing.T, db *DB, rut, name, tier, password string) {
	t.Helper()
	err := NewBeneficiaryRepo(db).Create(context.Background(), model.Beneficiary{
		Rut: rut, Name: name, Tier: tier, Password: password,
	})
	require.NoError(t, err, "seed beneficiary %s", rut)
}

// seedPhysician inserts a physician or fails the test.
func seedPhysician(t *testing.T, db *DB, rut, name, specialty, commune string) {
	t.Helper()
	err := NewPhysicianRepo(db).Upsert(context.Background(), model.Physician{
		Rut: rut, Name: name, Specialty: specialty, Commune: commune,
	})
	require.NoError(t, err, "seed physician %s", rut)
}
