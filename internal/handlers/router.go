package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/buildinfo"
	"github.com/siamcare/doctrackgo/internal/config"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/middleware"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/service"
	"github.com/siamcare/doctrackgo/internal/websocket"
)

// Router wraps the mux router with the service dependencies
type Router struct {
	*mux.Router
	svc   *service.DocumentService
	staff repository.StaffRepository
	hub   *websocket.Hub
	ring  *logging.RingHandler
	log   logging.Logger
	cfg   *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(
	svc *service.DocumentService,
	staff repository.StaffRepository,
	hub *websocket.Hub,
	ring *logging.RingHandler,
	log logging.Logger,
	cfg *config.Config,
) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		svc:    svc,
		staff:  staff,
		hub:    hub,
		ring:   ring,
		log:    log,
		cfg:    cfg,
	}

	auth := middleware.Auth(cfg.JWTSecret)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.HandleFunc("/api/status", r.getStatus).Methods("GET")

	// Auth routes
	r.HandleFunc("/auth/login", r.login).Methods("POST")
	r.HandleFunc("/auth/register", r.register).Methods("POST")

	// Document routes; status, note, and delete require a staff token
	r.HandleFunc("/api/documents", r.listDocuments).Methods("GET")
	r.HandleFunc("/api/documents", r.createDocument).Methods("POST")
	r.HandleFunc("/api/documents/search", r.searchDocuments).Methods("GET")
	r.HandleFunc("/api/documents/{id}", r.getDocument).Methods("GET")
	r.HandleFunc("/api/documents/{id}/slip", r.documentSlip).Methods("GET")
	r.HandleFunc("/api/documents/{id}/qrcode", r.documentQR).Methods("GET")
	r.Handle("/api/documents/{id}/status", auth(http.HandlerFunc(r.updateDocumentStatus))).Methods("PUT")
	r.Handle("/api/documents/{id}/note", auth(http.HandlerFunc(r.addNote))).Methods("POST")
	r.Handle("/api/documents/{id}", auth(http.HandlerFunc(r.deleteDocument))).Methods("DELETE")

	// Dashboard data
	r.HandleFunc("/api/statistics", r.getStatistics).Methods("GET")
	r.HandleFunc("/api/statistics/processing-time", r.getProcessingTime).Methods("GET")
	r.HandleFunc("/api/statistics/departments", r.getDepartmentPerformance).Methods("GET")
	r.HandleFunc("/api/rosters", r.getRosters).Methods("GET")

	// Live dashboard updates
	r.HandleFunc("/ws/dashboard", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.hub, w, req)
	})

	// Admin
	r.Handle("/api/admin/logs", auth(http.HandlerFunc(r.recentLogs))).Methods("GET")

	return r
}

// Handler returns the router wrapped with CORS and request logging.
func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(middleware.RequestLogging(r.log)(r.Router))
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "running",
		"backend":   r.cfg.Storage.Backend,
		"version":   buildinfo.Version,
		"commit":    buildinfo.CommitHash,
		"buildTime": buildinfo.BuildTime,
		"startTime": buildinfo.StartTime,
	})
}

// getRosters exposes the configured enum sets to the submission frontend.
func (r *Router) getRosters(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.cfg.Rosters)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondAppError maps the error taxonomy onto HTTP status codes.
func (r *Router) respondAppError(w http.ResponseWriter, req *http.Request, err error) {
	switch e := err.(type) {
	case *apperrors.ValidationError:
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": e.Message,
			"field": e.Field,
		})
	case *apperrors.DocumentNotFoundError:
		respondError(w, http.StatusNotFound, e.Error())
	case *apperrors.DuplicateDocumentError:
		respondError(w, http.StatusConflict, e.Error())
	case *apperrors.ConflictError:
		respondError(w, http.StatusConflict, e.Error())
	case *apperrors.InvalidTransitionError:
		respondError(w, http.StatusUnprocessableEntity, e.Error())
	default:
		r.log.Error(req.Context(), "request failed", "path", req.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
