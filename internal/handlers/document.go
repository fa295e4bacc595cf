package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/reports"
	"github.com/siamcare/doctrackgo/internal/repository"
)

// createDocument handles a new submission from the submit page
func (r *Router) createDocument(w http.ResponseWriter, req *http.Request) {
	var dto models.CreateDocumentDto
	if err := json.NewDecoder(req.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	doc, err := r.svc.SubmitDocument(req.Context(), dto)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// listDocuments returns all documents, optionally narrowed to one department
func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	var (
		docs []models.Document
		err  error
	)
	if dept := req.URL.Query().Get("department"); dept != "" && dept != "all" {
		docs, err = r.svc.GetDepartmentDocuments(req.Context(), dept)
	} else {
		docs, err = r.svc.GetAllDocuments(req.Context())
	}
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	respondJSON(w, http.StatusOK, docs)
}

// searchDocuments filters by sender, department and submitted-date range
func (r *Router) searchDocuments(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filters := repository.SearchFilters{
		SenderName: q.Get("senderName"),
		Department: q.Get("department"),
		DateFrom:   q.Get("dateFrom"),
		DateTo:     q.Get("dateTo"),
	}

	docs, err := r.svc.SearchDocuments(req.Context(), filters)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	respondJSON(w, http.StatusOK, docs)
}

// getDocument returns a single document by tracking id
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.svc.GetDocumentByID(req.Context(), id)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// updateDocumentStatus applies a status transition
func (r *Router) updateDocumentStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var dto models.UpdateStatusDto
	if err := json.NewDecoder(req.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	doc, err := r.svc.UpdateDocumentStatus(req.Context(), id, dto)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// addNote attaches a staff note to a document
func (r *Router) addNote(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	doc, err := r.svc.AddNote(req.Context(), id, body.Note)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// deleteDocument removes a document
func (r *Router) deleteDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if err := r.svc.DeleteDocument(req.Context(), id); err != nil {
		r.respondAppError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Document deleted successfully",
	})
}

func (r *Router) trackURL(id string) string {
	return fmt.Sprintf("%s/track/%s", r.cfg.BaseURL, id)
}

// documentSlip renders the printable tracking slip
func (r *Router) documentSlip(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.svc.GetDocumentByID(req.Context(), id)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}

	pdf, err := reports.TrackingSlip(doc, r.trackURL(doc.ID))
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", doc.ID))
	w.Write(pdf)
}

// documentQR renders the tracking QR code as PNG
func (r *Router) documentQR(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	doc, err := r.svc.GetDocumentByID(req.Context(), id)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}

	size := 256
	if s := req.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := reports.TrackingQR(r.trackURL(doc.ID), size)
	if err != nil {
		r.respondAppError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
