package web

import (
	"net/http"
	"strconv"

	"construction-ledger/internal/core"
)

// dashboard handles GET /api/dashboard. Optional query params: month
// (1-12), year, project_id; zero means unbounded.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	var filter core.DashboardFilter
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, r, "invalid month", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.Month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y <= 0 {
			writeError(w, r, "invalid year", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.Year = y
	}
	if v := r.URL.Query().Get("project_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeError(w, r, "invalid project_id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.ProjectID = id
	}

	dash, err := h.svc.GetDashboard(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, dash)
}

// extraHoursReport handles GET /api/reports/extra-hours. Optional query
// params: employee_id and competency ("YYYY-MM").
func (h *Handler) extraHoursReport(w http.ResponseWriter, r *http.Request) {
	employeeID := 0
	if v := r.URL.Query().Get("employee_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeError(w, r, "invalid employee_id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		employeeID = id
	}
	competency := r.URL.Query().Get("competency")

	report, err := h.svc.GetExtraHoursReport(r.Context(), employeeID, competency)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}
