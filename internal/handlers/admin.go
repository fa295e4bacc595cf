package handlers

import "net/http"

// recentLogs exposes the in-memory log ring buffer for troubleshooting
func (r *Router) recentLogs(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.ring.Entries())
}
