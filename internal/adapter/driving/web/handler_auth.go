package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// Index renders the login form for anonymous visitors and the menu otherwise.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, _ := h.currentSession(r)
	page := h.page(w, r, "Inicio", s)
	h.render(w, r, page, pages.Index(page))
}

// Login verifies the submitted credentials and establishes a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.requireCSRF(w, r) {
		return
	}

	b, err := h.authSvc.Login(r.Context(), r.PostFormValue("rut"), r.PostFormValue("clave"))

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.RecordLogin("invalid_input")
		h.flashAndRedirect(w, r, model.FlashError, loginMissingMessage(verr.Missing), "/")
		return
	case errors.Is(err, application.ErrNotFound):
		h.metrics.RecordLogin("not_found")
		h.flashAndRedirect(w, r, model.FlashError, "RUT no encontrado en la base local.", "/")
		return
	case errors.Is(err, application.ErrInvalidCredentials):
		h.metrics.RecordLogin("invalid_credentials")
		h.flashAndRedirect(w, r, model.FlashError, "RUT o clave incorrectos.", "/")
		return
	case err != nil:
		h.metrics.RecordLogin("error")
		h.flashAndRedirect(w, r, model.FlashError, "No fue posible iniciar sesión. Intenta nuevamente.", "/")
		return
	}

	s, err := h.sessions.Create(w, r, b.Rut, b.Name, b.Tier)
	if err != nil {
		h.logger.Error("failed to create session", "rut", b.Rut, "error", err)
		h.metrics.RecordLogin("error")
		h.flashAndRedirect(w, r, model.FlashError, "No fue posible iniciar sesión. Intenta nuevamente.", "/")
		return
	}

	h.metrics.RecordLogin("success")
	h.logger.Info("beneficiary logged in", "rut", s.BeneficiaryRut, "session_id", s.ID)
	h.flashAndRedirect(w, r, model.FlashSuccess,
		fmt.Sprintf("Bienvenido, %s (Tramo %s)", s.Name, s.Tier), "/portal")
}

// Logout clears the session unconditionally.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	h.flashAndRedirect(w, r, model.FlashInfo, "Has cerrado sesión.", "/")
}

// Portal renders the authenticated landing page.
func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	page := h.page(w, r, "Portal", s)
	h.render(w, r, page, pages.Portal(page))
}

// RegistrationForm renders the registration form.
func (h *Handler) RegistrationForm(w http.ResponseWriter, r *http.Request) {
	s, _ := h.currentSession(r)
	page := h.page(w, r, "Registro", s)
	h.render(w, r, page, pages.Registro(page))
}

// Register creates a beneficiary. It never changes the caller's session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.requireCSRF(w, r) {
		return
	}

	b, err := h.authSvc.Register(r.Context(), application.Registration{
		Rut:      r.PostFormValue("rut"),
		Name:     r.PostFormValue("nombre"),
		Tier:     r.PostFormValue("tramo"),
		Password: r.PostFormValue("clave"),
	})

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.flashAndRedirect(w, r, model.FlashError,
			"Debes completar los campos: "+strings.Join(verr.Missing, ", ")+".", "/registro")
		return
	case errors.Is(err, application.ErrDuplicateKey):
		h.flashAndRedirect(w, r, model.FlashError,
			fmt.Sprintf("El RUT %s ya está registrado.", strings.TrimSpace(r.PostFormValue("rut"))), "/registro")
		return
	case err != nil:
		h.flashAndRedirect(w, r, model.FlashError, "No fue posible completar el registro.", "/registro")
		return
	}

	h.logger.Info("beneficiary registered", "rut", b.Rut)
	h.flashAndRedirect(w, r, model.FlashSuccess, "Registro exitoso. Ya puedes iniciar sesión.", "/")
}

// loginMissingMessage names every blank login field in one notice.
func loginMissingMessage(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, f := range missing {
		switch f {
		case "rut":
			labels = append(labels, "RUT")
		case "clave":
			labels = append(labels, "tu clave")
		default:
			labels = append(labels, f)
		}
	}
	return "Por favor ingresa " + strings.Join(labels, " y ") + "."
}
