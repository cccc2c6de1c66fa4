package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"construction-ledger/internal/app"
	"construction-ledger/internal/core"
)

const maxReceiptSize = 10 << 20 // 10 MB

// postPurchase handles POST /api/purchases. The body is multipart form data:
// scalar header fields, an "items" field holding a JSON array of line items,
// and an optional "receipt" file attachment.
func (h *Handler) postPurchase(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptSize+(1<<20))
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeError(w, r, "request too large or malformed", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var items []core.PurchaseItemInput
	if raw := r.FormValue("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			writeError(w, r, "invalid items JSON: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	discount, err := formDecimal(r, "discount_total")
	if err != nil {
		writeError(w, r, "invalid discount_total", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	req := app.PostPurchaseRequest{
		ProjectID:        formInt(r, "project_id"),
		SupplierID:       formInt(r, "supplier_id"),
		EmployeeID:       formInt(r, "employee_id"),
		PurchaseDate:     r.FormValue("purchase_date"),
		DueDate:          r.FormValue("due_date"),
		PaymentMethod:    r.FormValue("payment_method"),
		InstallmentCount: formInt(r, "installment_count"),
		Notes:            r.FormValue("notes"),
		DiscountTotal:    discount,
		Items:            items,
	}

	key, ok := h.storeUpload(w, r, "receipt")
	if !ok {
		return
	}
	req.ReceiptKey = key

	posting, err := h.svc.PostPurchase(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, posting)
}

// listPurchases handles GET /api/purchases.
func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, purchases)
}

// getPurchase handles GET /api/purchases/{id}.
func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid purchase ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	purchase, err := h.svc.GetPurchase(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, purchase)
}

// storeUpload saves the named multipart file through the blob store and
// returns its key. ok is true when there was no file or it was stored;
// false means an error response has been written.
func (h *Handler) storeUpload(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	f, fh, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", true
	}
	if err != nil {
		writeError(w, r, "failed to read uploaded file", "BAD_REQUEST", http.StatusBadRequest)
		return "", false
	}
	defer f.Close()

	key, err := h.svc.StoreReceipt(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(w, r, "failed to store uploaded file", "INTERNAL_ERROR", http.StatusInternalServerError)
		return "", false
	}
	return key, true
}

// formInt parses a form field as an int; absent or malformed yields zero,
// which the service layer rejects with a field-specific message.
func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(r.FormValue(field))
	return n
}

// formDecimal parses a form field as a decimal; empty means zero.
func formDecimal(r *http.Request, field string) (decimal.Decimal, error) {
	v := r.FormValue(field)
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}
