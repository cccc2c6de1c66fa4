package web

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// downloadFile handles GET /files/{key} — serves a stored receipt when the
// URL carries a valid, unexpired HMAC signature.
func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid expiry", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	sig := r.URL.Query().Get("sig")
	if !h.files.Verify(key, exp, sig) {
		writeError(w, r, "link is invalid or has expired", "FORBIDDEN", http.StatusForbidden)
		return
	}

	rc, name, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, "file not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	_, _ = io.Copy(w, rc)
}
