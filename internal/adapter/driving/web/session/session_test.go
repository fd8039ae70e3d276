package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

type memSessionStore struct {
	rows    map[string]model.Session
	deleted []string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{rows: map[string]model.Session{}}
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
	m.deleted = append(m.deleted, id)
	delete(m.rows, id)
	return nil
}

func (m *memSessionStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

var testSecret = []byte("0123456789abcdef-test")

func newTestManager(store *memSessionStore) *Manager {
	return NewManager(store, testSecret, time.Hour, false, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// carry copies the cookies set on rec onto a fresh request, the way a browser
// would on its next request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(c)
	}
	return req
}

func TestManager_CreateThenCurrent(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	rec := httptest.NewRecorder()
	created, err := m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	got, err := m.Current(carry(rec))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "1-9", got.BeneficiaryRut)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "A", got.Tier)
}

func TestManager_Current_NoSession(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	rec := httptest.NewRecorder()
	_, err := m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)
	valid := rec.Result().Cookies()[0].Value

	forged := NewManager(store, []byte("another-secret-entirely"), time.Hour, false, m.logger)
	rec2 := httptest.NewRecorder()
	_, err = forged.Create(rec2, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
		setup  func()
	}{
		{name: "no cookie"},
		{name: "garbage", cookie: &http.Cookie{Name: sessionCookieName, Value: "not-a-token"}},
		{name: "wrong signature", cookie: rec2.Result().Cookies()[0]},
		{
			name:   "row removed",
			cookie: &http.Cookie{Name: sessionCookieName, Value: valid},
			setup: func() {
				for id := range store.rows {
					delete(store.rows, id)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			req := httptest.NewRequest(http.MethodGet, "/portal", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			_, err := m.Current(req)
			assert.ErrorIs(t, err, ErrNoActiveSession)
		})
	}
}

func TestManager_Current_Expired(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	rec := httptest.NewRecorder()
	_, err := m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = m.Current(carry(rec))
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_Update(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	err := m.Update(httptest.NewRequest(http.MethodPost, "/actualizar_datos", nil), "Ana", "B")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	rec := httptest.NewRecorder()
	_, err = m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)

	req := carry(rec)
	require.NoError(t, m.Update(req, "Ana María", "B"))

	got, err := m.Current(req)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, "B", got.Tier)
}

func TestManager_Destroy(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	rec := httptest.NewRecorder()
	created, err := m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)
	req := carry(rec)

	out := httptest.NewRecorder()
	m.Destroy(out, req)

	assert.Equal(t, []string{created.ID}, store.deleted)
	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)

	_, err = m.Current(req)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_Destroy_WithoutSession(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	out := httptest.NewRecorder()
	m.Destroy(out, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Empty(t, store.deleted)
	require.Len(t, out.Result().Cookies(), 1)
}

func TestManager_CreateReplacesPreviousSession(t *testing.T) {
	store := newMemSessionStore()
	m := newTestManager(store)

	rec := httptest.NewRecorder()
	first, err := m.Create(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "1-9", "Ana", "A")
	require.NoError(t, err)

	rec2 := httptest.NewRecorder()
	second, err := m.Create(rec2, carry(rec), "1-9", "Ana", "A")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{first.ID}, store.deleted)
	assert.Len(t, store.rows, 1)
}
