package web

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/session"
	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

const msgProfileMissing = "No se encontró tu registro en la base local."

// ProfileForm renders the profile form with the stored values. A beneficiary
// that no longer exists ends the session.
func (h *Handler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	b, err := h.profileSvc.Get(r.Context(), s.BeneficiaryRut)
	switch {
	case errors.Is(err, application.ErrNotFound):
		h.forceLogout(w, r)
		return
	case err != nil:
		h.flashAndRedirect(w, r, model.FlashError, "No fue posible obtener tus datos.", "/portal")
		return
	}

	page := h.page(w, r, "Actualizar datos", s)
	h.render(w, r, page, pages.ActualizarDatos(page, toProfileViewModel(b)))
}

// UpdateProfile stores a new name and tier and refreshes the session cache.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if !h.requireCSRF(w, r) {
		return
	}

	name, tier, err := h.profileSvc.Update(r.Context(), s.BeneficiaryRut, r.PostFormValue("nombre"), r.PostFormValue("tramo"))

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.flashAndRedirect(w, r, model.FlashError, "Debes completar nombre y tramo.", "/actualizar_datos")
		return
	case errors.Is(err, application.ErrNotFound):
		h.forceLogout(w, r)
		return
	case err != nil:
		h.flashAndRedirect(w, r, model.FlashError, "No fue posible actualizar tus datos.", "/actualizar_datos")
		return
	}

	if err := h.sessions.Update(r, name, tier); err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			h.flashAndRedirect(w, r, model.FlashError, msgLoginRequired, "/")
			return
		}
		h.logger.Error("failed to refresh session after profile update", "rut", s.BeneficiaryRut, "error", err)
	}

	h.flashAndRedirect(w, r, model.FlashSuccess, "Datos actualizados correctamente.", "/actualizar_datos")
}

// forceLogout ends a session whose beneficiary record has disappeared.
func (h *Handler) forceLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	h.flashAndRedirect(w, r, model.FlashError, msgProfileMissing, "/")
}
