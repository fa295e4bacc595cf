package handlers

import "net/http"

// getStatistics returns collection-wide counts for the dashboard
func (r *Router) getStatistics(w http.ResponseWriter, req *http.Request) {
	stats, err := r.svc.GetStatistics(req.Context())
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// getProcessingTime returns average completion hours per department
func (r *Router) getProcessingTime(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.GetProcessingTime(req.Context()))
}

// getDepartmentPerformance returns per-department workload summaries
func (r *Router) getDepartmentPerformance(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.svc.GetDepartmentPerformance(req.Context()))
}
