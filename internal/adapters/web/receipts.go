package web

import (
	"net/http"

	"construction-ledger/internal/app"
)

// createProjectReceipt handles POST /api/project-receipts.
func (h *Handler) createProjectReceipt(w http.ResponseWriter, r *http.Request) {
	var req app.CreateReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	receipt, err := h.svc.CreateProjectReceipt(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, receipt)
}

// listProjectReceipts handles GET /api/project-receipts.
func (h *Handler) listProjectReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.svc.ListProjectReceipts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, receipts)
}
