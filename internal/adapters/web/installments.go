package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// listInstallments handles GET /api/installments.
func (h *Handler) listInstallments(w http.ResponseWriter, r *http.Request) {
	installments, err := h.svc.ListInstallments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, installments)
}

// payInstallment handles PUT /api/installments/{id}/pay. Paying an already
// paid installment is a conflict; the payment date is never overwritten.
func (h *Handler) payInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid installment ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	inst, err := h.svc.PayInstallment(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inst)
}
