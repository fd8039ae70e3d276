// Package session keeps the authenticated state of each browser client.
//
// Session rows live in the database; the browser only holds a signed token
// naming the row. Flash notices travel in a separate signed cookie that is
// cleared when read.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

const (
	sessionCookieName = "portal_session"
	flashCookieName   = "portal_flash"
	flashTTL          = 5 * time.Minute
)

// ErrNoActiveSession is returned when the request carries no usable session.
var ErrNoActiveSession = errors.New("no active session")

// Manager creates, resolves, and destroys sessions.
type Manager struct {
	store  driven.SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. secret signs both cookies; secure controls
// the cookies' Secure attribute.
func NewManager(store driven.SessionStore, secret []byte, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
		secure: secure,
		logger: logger,
		now:    time.Now,
	}
}

// Create establishes an authenticated session for the beneficiary. A session
// already referenced by the request is discarded first.
func (m *Manager) Create(w http.ResponseWriter, r *http.Request, rut, name, tier string) (*model.Session, error) {
	if id, ok := m.sessionID(r); ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			m.logger.Warn("failed to drop previous session", "session_id", id, "error", err)
		}
	}

	now := m.now().UTC().Truncate(time.Second)
	s := model.Session{
		ID:             uuid.NewString(),
		BeneficiaryRut: rut,
		Name:           name,
		Tier:           tier,
		CreatedAt:      now,
		ExpiresAt:      now.Add(m.ttl),
	}

	if err := m.store.Create(r.Context(), s); err != nil {
		return nil, fmt.Errorf("create session for %s: %w", rut, err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   rut,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return &s, nil
}

// Current returns the request's active session, or ErrNoActiveSession when
// the cookie is missing, forged, or expired, or the row no longer exists.
func (m *Manager) Current(r *http.Request) (*model.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoActiveSession
	}

	claims, err := m.parse(cookie.Value, true)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	s, err := m.store.Get(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if s.Expired(m.now()) {
		return nil, ErrNoActiveSession
	}

	return s, nil
}

// Update replaces the cached profile fields of the active session.
func (m *Manager) Update(r *http.Request, name, tier string) error {
	s, err := m.Current(r)
	if err != nil {
		return err
	}

	if err := m.store.Update(r.Context(), s.ID, name, tier); err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			return ErrNoActiveSession
		}
		return fmt.Errorf("update session %s: %w", s.ID, err)
	}
	return nil
}

// Destroy deletes the session row, if any, and always expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if id, ok := m.sessionID(r); ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			m.logger.Error("failed to delete session", "session_id", id, "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionID extracts the session id from a correctly signed cookie, expired
// or not.
func (m *Manager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	claims, err := m.parse(cookie.Value, false)
	if err != nil || claims.ID == "" {
		return "", false
	}
	return claims.ID, true
}

func (m *Manager) parse(token string, validate bool) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
