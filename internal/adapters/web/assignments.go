package web

import (
	"net/http"

	"construction-ledger/internal/app"
)

// assignEmployee handles POST /api/projects/{id}/assignments.
func (h *Handler) assignEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	var req app.AssignEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProjectID = id
	assignment, err := h.svc.AssignEmployee(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, assignment)
}

// listAssignments handles GET /api/projects/{id}/assignments.
func (h *Handler) listAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	assignments, err := h.svc.ListProjectAssignments(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, assignments)
}
