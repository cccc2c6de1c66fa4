package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"construction-ledger/internal/app"
)

// FileStore verifies and serves signed receipt downloads. Satisfied by
// blob.DiskStore.
type FileStore interface {
	Verify(key string, exp int64, sig string) bool
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	files     FileStore
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, files FileStore, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		files:     files,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// Receipt downloads carry their own HMAC signature instead of a session.
	r.Get("/files/{key}", h.downloadFile)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Multipart posting endpoints: body limit is managed inside the handler.
		r.Post("/api/purchases", h.postPurchase)
		r.Post("/api/payroll-payments", h.postPayrollPayment)

		// All other protected endpoints: 1 MB body limit.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20)) // 1 MB

			r.Get("/api/auth/me", h.me)

			// Projects
			r.Get("/api/projects", h.listProjects)
			r.Post("/api/projects", h.createProject)
			r.Post("/api/projects/{id}/pause", h.pauseProject)
			r.Post("/api/projects/{id}/resume", h.resumeProject)
			r.Post("/api/projects/{id}/finish", h.finishProject)
			r.Post("/api/projects/{id}/cancel", h.cancelProject)
			r.Get("/api/projects/{id}/assignments", h.listAssignments)
			r.Post("/api/projects/{id}/assignments", h.assignEmployee)

			// Reference registries
			r.Get("/api/suppliers", h.listSuppliers)
			r.Post("/api/suppliers", h.createSupplier)
			r.Get("/api/employees", h.listEmployees)
			r.Post("/api/employees", h.createEmployee)
			r.Get("/api/products", h.listProducts)
			r.Post("/api/products", h.createProduct)
			r.Get("/api/categories", h.listCategories)
			r.Post("/api/categories", h.createCategory)

			// Purchases and installments
			r.Get("/api/purchases", h.listPurchases)
			r.Get("/api/purchases/{id}", h.getPurchase)
			r.Get("/api/installments", h.listInstallments)
			r.Put("/api/installments/{id}/pay", h.payInstallment)

			// Payroll
			r.Get("/api/payroll-payments", h.listPayrollPayments)
			r.Get("/api/payroll-payments/{id}", h.getPayrollPayment)

			// Project receipts (revenue)
			r.Get("/api/project-receipts", h.listProjectReceipts)
			r.Post("/api/project-receipts", h.createProjectReceipt)

			// Reporting
			r.Get("/api/dashboard", h.dashboard)
			r.Get("/api/reports/extra-hours", h.extraHoursReport)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
