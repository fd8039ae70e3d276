package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// SearchPhysicians renders the physician search with the purchase form. A
// failed search still renders the page, with an error notice.
func (h *Handler) SearchPhysicians(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := model.PhysicianQuery{
		Kind:      model.SearchKind(q.Get("tipoBusqueda")),
		Value:     q.Get("valorBusqueda"),
		Specialty: q.Get("especialidad"),
		Commune:   q.Get("comuna"),
	}

	var notices []vm.FlashViewModel
	res, err := h.physicianSvc.Search(r.Context(), query)
	if err != nil {
		res = nil
		notices = append(notices, vm.FlashViewModel{
			Category: string(model.FlashError),
			Message:  "Error al buscar médicos.",
		})
	}

	today := h.now().Format(model.IssueDateLayout)
	page := h.page(w, r, "Comprar bono", s, notices...)
	h.render(w, r, page, pages.ComprarBono(page, toSearchViewModel(query, res, today)))
}

// ConfirmPurchase stores a voucher for the session's beneficiary. Validation
// failures go back to the search page; every other outcome continues to the
// voucher list.
func (h *Handler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	if !h.requireCSRF(w, r) {
		return
	}

	in := application.Purchase{
		ID:           r.PostFormValue("id_bono"),
		IssueDate:    r.PostFormValue("fecha_emision"),
		Description:  r.PostFormValue("descripcion"),
		Total:        r.PostFormValue("valor_total"),
		Copay:        r.PostFormValue("valor_copago"),
		Payable:      r.PostFormValue("valor_apagar"),
		PhysicianRut: r.PostFormValue("rut_medico"),
	}

	v, err := h.voucherSvc.Purchase(r.Context(), s.BeneficiaryRut, in)

	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.RecordPurchase("invalid_input")
		msg := "Faltan datos para registrar el bono."
		if len(verr.Missing) == 0 {
			msg = "Datos inválidos para el bono: " + strings.Join(verr.Invalid, ", ") + "."
		}
		h.flashAndRedirect(w, r, model.FlashError, msg, "/comprar_bono")
		return
	case errors.Is(err, application.ErrDuplicateKey):
		h.metrics.RecordPurchase("duplicate")
		h.sessions.AddFlash(w, r, model.FlashError,
			fmt.Sprintf("Error al guardar el bono: ya existe un bono con ID %s.", strings.TrimSpace(in.ID)))
	case err != nil:
		h.metrics.RecordPurchase("error")
		h.sessions.AddFlash(w, r, model.FlashError, "Error al guardar el bono.")
	default:
		h.metrics.RecordPurchase("success")
		h.logger.Info("voucher purchased", "id_bono", v.ID, "rut", s.BeneficiaryRut)
		h.sessions.AddFlash(w, r, model.FlashSuccess, "Bono registrado correctamente.")
	}

	h.redirect(w, r, "/ver_bono")
}

// ListVouchers renders the session beneficiary's vouchers. A store failure
// renders an empty list with an error notice.
func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var notices []vm.FlashViewModel
	vouchers, err := h.voucherSvc.List(r.Context(), s.BeneficiaryRut)
	if err != nil {
		notices = append(notices, vm.FlashViewModel{
			Category: string(model.FlashError),
			Message:  "Error al obtener bonos.",
		})
	}

	page := h.page(w, r, "Mis bonos", s, notices...)
	h.render(w, r, page, pages.VerBonos(toVoucherViewModels(vouchers)))
}
