package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"construction-ledger/internal/app"
	"construction-ledger/internal/core"
)

// postPayrollPayment handles POST /api/payroll-payments. Multipart form:
// scalar fields, an "extras" field holding a JSON array of extra-hours
// lines, and an optional "receipt" file attachment.
func (h *Handler) postPayrollPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptSize+(1<<20))
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeError(w, r, "request too large or malformed", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var extras []core.ExtraHoursInput
	if raw := r.FormValue("extras"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &extras); err != nil {
			writeError(w, r, "invalid extras JSON: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	base, err := formDecimal(r, "base_amount")
	if err != nil {
		writeError(w, r, "invalid base_amount", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	req := app.PostPayrollRequest{
		EmployeeID:  formInt(r, "employee_id"),
		Competency:  r.FormValue("competency"),
		PaymentDate: r.FormValue("payment_date"),
		BaseAmount:  base,
		Notes:       r.FormValue("notes"),
		Extras:      extras,
	}

	key, ok := h.storeUpload(w, r, "receipt")
	if !ok {
		return
	}
	req.ReceiptKey = key

	payment, err := h.svc.PostPayrollPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, payment)
}

// listPayrollPayments handles GET /api/payroll-payments.
func (h *Handler) listPayrollPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayrollPayments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payments)
}

// getPayrollPayment handles GET /api/payroll-payments/{id}.
func (h *Handler) getPayrollPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid payment ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	payment, err := h.svc.GetPayrollPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}
