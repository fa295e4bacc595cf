// Package service holds the application layer: validation, the status
// transition guard, derived statistics, and live-event fanout on top of the
// document repository.
package service

import (
	"context"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/config"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/validation"
)

// Broadcaster pushes live events to connected dashboard clients.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Event is the payload broadcast on document changes.
type Event struct {
	Type     string           `json:"type"`
	Document *models.Document `json:"document"`
}

const (
	EventDocumentCreated = "document_created"
	EventStatusChanged   = "status_changed"
)

// DepartmentPerformance summarizes one department's workload.
type DepartmentPerformance struct {
	Pending   int     `json:"pending"`
	Completed int     `json:"completed"`
	AvgTime   float64 `json:"avgTime"`
}

// DocumentService orchestrates repository calls for the HTTP layer.
type DocumentService struct {
	repo    repository.DocumentRepository
	rosters config.RosterConfig
	log     logging.Logger
	events  Broadcaster
}

// New creates the service. events may be nil when no live dashboard is wired.
func New(repo repository.DocumentRepository, rosters config.RosterConfig, log logging.Logger, events Broadcaster) *DocumentService {
	return &DocumentService{repo: repo, rosters: rosters, log: log, events: events}
}

func (s *DocumentService) broadcast(eventType string, doc *models.Document) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(Event{Type: eventType, Document: doc})
}

// Queries

func (s *DocumentService) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	if err := validation.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *DocumentService) GetAllDocuments(ctx context.Context) ([]models.Document, error) {
	return s.repo.FindAll(ctx)
}

func (s *DocumentService) GetDepartmentDocuments(ctx context.Context, department string) ([]models.Document, error) {
	return s.repo.FindByDepartment(ctx, department)
}

func (s *DocumentService) SearchDocuments(ctx context.Context, filters repository.SearchFilters) ([]models.Document, error) {
	return s.repo.Search(ctx, filters)
}

// Commands

// SubmitDocument validates and stores a new submission.
func (s *DocumentService) SubmitDocument(ctx context.Context, dto models.CreateDocumentDto) (*models.Document, error) {
	if err := validation.ValidateCreate(dto, s.rosters.Departments, s.rosters.DocumentTypes); err != nil {
		return nil, err
	}
	doc, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, err
	}
	s.broadcast(EventDocumentCreated, doc)
	return doc, nil
}

// UpdateDocumentStatus applies a transition after checking it against the
// state machine.
func (s *DocumentService) UpdateDocumentStatus(ctx context.Context, id string, dto models.UpdateStatusDto) (*models.Document, error) {
	if err := validation.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	if err := validation.ValidateStatusUpdate(dto); err != nil {
		return nil, err
	}

	// Early check for a clean error before touching the store; the
	// repository re-checks under its write lock, which is what actually
	// keeps racing callers out of terminal statuses.
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(doc.Status, dto.Status) {
		return nil, &apperrors.InvalidTransitionError{From: string(doc.Status), To: string(dto.Status)}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, dto)
	if err != nil {
		return nil, err
	}
	s.broadcast(EventStatusChanged, updated)
	return updated, nil
}

// AddNote persists a staff note together with its note_added audit entry in
// a single write.
func (s *DocumentService) AddNote(ctx context.Context, id string, note string) (*models.Document, error) {
	if err := validation.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	if note == "" {
		return nil, apperrors.NewValidationError("note is required", "note", note)
	}
	if len(note) > validation.MaxNoteLength {
		return nil, apperrors.NewValidationError("note too long", "note", note)
	}
	return s.repo.AddNote(ctx, id, note)
}

// AddHistory appends a free-form audit entry.
func (s *DocumentService) AddHistory(ctx context.Context, id string, entry models.HistoryEntry) error {
	if err := validation.ValidateDocumentID(id); err != nil {
		return err
	}
	return s.repo.AddHistory(ctx, id, entry)
}

// UpdateDocument replaces a stored document, subject to the version check.
func (s *DocumentService) UpdateDocument(ctx context.Context, doc *models.Document) error {
	if err := validation.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, doc)
}

// DeleteDocument removes a document permanently.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if err := validation.ValidateDocumentID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Statistics & reports

func (s *DocumentService) GetStatistics(ctx context.Context) (*repository.Statistics, error) {
	return s.repo.GetStatistics(ctx)
}

// GetProcessingTime averages completion time in hours per department.
// Departments without completed documents are absent from the result.
// Store failures degrade to an empty result so dashboards stay up.
func (s *DocumentService) GetProcessingTime(ctx context.Context) map[string]float64 {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error(ctx, "processing-time scan failed, returning empty result", "error", err)
		return map[string]float64{}
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for i := range docs {
		doc := &docs[i]
		if doc.CompletedDate == "" {
			continue
		}
		hours, ok := s.elapsedHours(ctx, doc)
		if !ok {
			continue
		}
		totals[doc.Department] += hours
		counts[doc.Department]++
	}

	avg := make(map[string]float64, len(totals))
	for dept, total := range totals {
		avg[dept] = total / float64(counts[dept])
	}
	return avg
}

// GetDepartmentPerformance produces per-department pending and completed
// counts plus average completion hours, in a single pass.
func (s *DocumentService) GetDepartmentPerformance(ctx context.Context) map[string]DepartmentPerformance {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error(ctx, "department-performance scan failed, returning empty result", "error", err)
		return map[string]DepartmentPerformance{}
	}

	perf := make(map[string]DepartmentPerformance)
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for i := range docs {
		doc := &docs[i]
		p := perf[doc.Department]
		switch doc.Status {
		case models.StatusPending:
			p.Pending++
		case models.StatusCompleted:
			p.Completed++
			if hours, ok := s.elapsedHours(ctx, doc); ok {
				totals[doc.Department] += hours
				counts[doc.Department]++
			}
		}
		perf[doc.Department] = p
	}

	for dept, p := range perf {
		if counts[dept] > 0 {
			p.AvgTime = totals[dept] / float64(counts[dept])
			perf[dept] = p
		}
	}
	return perf
}

// elapsedHours computes completedDate - submittedDate in hours.
func (s *DocumentService) elapsedHours(ctx context.Context, doc *models.Document) (float64, bool) {
	start, err := models.ParseTimestamp(doc.SubmittedDate)
	if err != nil {
		s.log.Warn(ctx, "unparseable submittedDate", "id", doc.ID, "value", doc.SubmittedDate)
		return 0, false
	}
	end, err := models.ParseTimestamp(doc.CompletedDate)
	if err != nil {
		s.log.Warn(ctx, "unparseable completedDate", "id", doc.ID, "value", doc.CompletedDate)
		return 0, false
	}
	return end.Sub(start).Hours(), true
}
