// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/session"
	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/metrics"
)

const msgLoginRequired = "Debes iniciar sesión primero."

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	authSvc       *application.AuthService
	profileSvc    *application.ProfileService
	physicianSvc  *application.PhysicianService
	voucherSvc    *application.VoucherService
	sessions      *session.Manager
	metrics       *metrics.Metrics
	secureCookies bool
	logger        *slog.Logger
	now           func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	profileSvc *application.ProfileService,
	physicianSvc *application.PhysicianService,
	voucherSvc *application.VoucherService,
	sessions *session.Manager,
	m *metrics.Metrics,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		profileSvc:    profileSvc,
		physicianSvc:  physicianSvc,
		voucherSvc:    voucherSvc,
		sessions:      sessions,
		metrics:       m,
		secureCookies: secureCookies,
		logger:        logger,
		now:           time.Now,
	}
}

// currentSession returns the caller's session or an error matching
// application.ErrUnauthenticated.
func (h *Handler) currentSession(r *http.Request) (*model.Session, error) {
	s, err := h.sessions.Current(r)
	if err != nil {
		if !errors.Is(err, session.ErrNoActiveSession) {
			h.logger.Error("failed to resolve session", "path", r.URL.Path, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", application.ErrUnauthenticated, err)
	}
	return s, nil
}

// requireSession returns the caller's session. Without one it queues the
// login-required notice, redirects to the landing page, and returns false.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	s, err := h.currentSession(r)
	if errors.Is(err, application.ErrUnauthenticated) {
		h.sessions.AddFlash(w, r, model.FlashError, msgLoginRequired)
		h.redirect(w, r, "/")
		return nil, false
	}
	return s, true
}

// requireCSRF rejects form posts whose token does not match the cookie.
// Authenticated posts check the session first, so an anonymous post is sent
// to the login page rather than refused.
func (h *Handler) requireCSRF(w http.ResponseWriter, r *http.Request) bool {
	if validateCSRF(r) {
		return true
	}
	h.logger.Warn("csrf validation failed", "path", r.URL.Path)
	http.Error(w, "forbidden", http.StatusForbidden)
	return false
}

// flashAndRedirect queues a notice and sends the browser to target.
func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, category model.FlashCategory, message, target string) {
	h.sessions.AddFlash(w, r, category, message)
	h.redirect(w, r, target)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// page builds the layout model: it consumes pending flashes and makes sure a
// CSRF cookie exists for the forms on the page. extra notices are appended
// after the pending ones.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, title string, s *model.Session, extra ...vm.FlashViewModel) vm.PageViewModel {
	flashes := toFlashViewModels(h.sessions.Flashes(w, r))
	return vm.PageViewModel{
		Title:     title,
		CSRFToken: h.csrfToken(w, r),
		Flashes:   append(flashes, extra...),
		User:      toUserViewModel(s),
	}
}

// render writes body inside the layout. Output is buffered so a template
// failure still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page vm.PageViewModel, body templ.Component) {
	var buf bytes.Buffer
	if err := templates.Layout(page, body).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "title", page.Title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
