package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"construction-ledger/internal/app"
)

type reasonRequest struct {
	Reason string `json:"reason"`
}

// decodeReason reads an optional {"reason": ...} body; an empty body is
// treated as no reason given.
func decodeReason(w http.ResponseWriter, r *http.Request) (reasonRequest, bool) {
	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// createProject handles POST /api/projects.
func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req app.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	project, err := h.svc.CreateProject(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, project)
}

// listProjects handles GET /api/projects.
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, projects)
}

// projectID extracts and validates the {id} URL parameter.
func projectID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid project ID", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pauseProject handles POST /api/projects/{id}/pause.
func (h *Handler) pauseProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	req, ok := decodeReason(w, r)
	if !ok {
		return
	}
	project, err := h.svc.PauseProject(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, project)
}

// resumeProject handles POST /api/projects/{id}/resume.
func (h *Handler) resumeProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	project, err := h.svc.ResumeProject(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, project)
}

// finishProject handles POST /api/projects/{id}/finish.
func (h *Handler) finishProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	project, err := h.svc.FinishProject(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, project)
}

// cancelProject handles POST /api/projects/{id}/cancel.
func (h *Handler) cancelProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	req, ok := decodeReason(w, r)
	if !ok {
		return
	}

	by := ""
	if claims := authFromContext(r.Context()); claims != nil {
		by = claims.Username
	}

	project, err := h.svc.CancelProject(r.Context(), id, by, req.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, project)
}
