package session

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category model.FlashCategory `json:"c"`
	Message  string              `json:"m"`
}

type flashClaims struct {
	Flashes []Flash `json:"f"`
	jwt.RegisteredClaims
}

// AddFlash queues a notice for the next page. Notices queued earlier in the
// same response, or still pending from a previous one, are kept.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category model.FlashCategory, message string) {
	pending, ok := m.pendingFlashes(w)
	if !ok {
		pending = m.readFlashes(r)
	}
	pending = append(pending, Flash{Category: category, Message: message})

	now := m.now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Flashes: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}).SignedString(m.secret)
	if err != nil {
		m.logger.Error("failed to sign flash", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flashes returns and clears the notices carried by the request.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := m.readFlashes(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func (m *Manager) readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.decodeFlashes(cookie.Value)
}

// pendingFlashes decodes the flash cookie already set on w, if any.
func (m *Manager) pendingFlashes(w http.ResponseWriter) ([]Flash, bool) {
	values := w.Header().Values("Set-Cookie")
	for i := len(values) - 1; i >= 0; i-- {
		c, err := http.ParseSetCookie(values[i])
		if err != nil || c.Name != flashCookieName {
			continue
		}
		return m.decodeFlashes(c.Value), true
	}
	return nil, false
}

func (m *Manager) decodeFlashes(token string) []Flash {
	claims := &flashClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims.Flashes
}
