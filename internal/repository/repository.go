// Package repository implements document persistence behind a single
// contract with two interchangeable backends: a PostgreSQL store and a
// local JSON-file store.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/models"
)

// SearchFilters narrows a document query. Zero-value fields are ignored;
// provided predicates are combined with AND.
type SearchFilters struct {
	// SenderName matches case-insensitively as a substring.
	SenderName string
	// Department matches exactly; empty or "all" matches every department.
	Department string
	// DateFrom / DateTo bound SubmittedDate inclusively. Accepts ISO-8601
	// timestamps or plain YYYY-MM-DD dates.
	DateFrom string
	DateTo   string
}

// Statistics is the count summary produced by a full-collection scan.
type Statistics struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	ByDepartment map[string]int `json:"byDepartment"`
}

// DocumentRepository is the storage-access contract for documents.
type DocumentRepository interface {
	// FindByID returns the document or a DocumentNotFoundError.
	FindByID(ctx context.Context, id string) (*models.Document, error)
	FindAll(ctx context.Context) ([]models.Document, error)
	FindByDepartment(ctx context.Context, department string) ([]models.Document, error)
	Search(ctx context.Context, filters SearchFilters) ([]models.Document, error)

	// Create assigns a date-scoped sequence id, forces status to pending,
	// stamps SubmittedDate and seeds history with a single created entry.
	Create(ctx context.Context, dto models.CreateDocumentDto) (*models.Document, error)

	// Update replaces the stored document. The version the caller read must
	// still be current or a ConflictError is returned.
	Update(ctx context.Context, doc *models.Document) error

	// UpdateStatus applies a status transition: stamps the matching date
	// field on its first occurrence and appends exactly one history entry.
	// The transition is checked against models.CanTransition under the
	// store's write lock; illegal moves return InvalidTransitionError.
	UpdateStatus(ctx context.Context, id string, dto models.UpdateStatusDto) (*models.Document, error)

	// AddHistory appends an audit entry without changing status.
	AddHistory(ctx context.Context, id string, entry models.HistoryEntry) error

	// AddNote sets the staff note and appends a note_added history entry in
	// one write.
	AddNote(ctx context.Context, id string, note string) (*models.Document, error)

	Delete(ctx context.Context, id string) error
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// newStatistics seeds the status map so every status reports a count,
// including zero.
func newStatistics() *Statistics {
	stats := &Statistics{
		ByStatus:     make(map[string]int, len(models.Statuses)),
		ByDepartment: make(map[string]int),
	}
	for _, s := range models.Statuses {
		stats.ByStatus[string(s)] = 0
	}
	return stats
}

// applyStatusUpdate mutates doc for the requested transition and returns the
// single history entry to append. Date stamps are set only on the first
// transition into their status, so re-applying a status never moves them.
func applyStatusUpdate(doc *models.Document, dto models.UpdateStatusDto) models.HistoryEntry {
	now := models.Timestamp()
	doc.Status = dto.Status

	action := models.ActionUpdated
	switch dto.Status {
	case models.StatusProcessing:
		if doc.ReceivedDate == "" {
			doc.ReceivedDate = now
		}
		action = models.ActionReceived
	case models.StatusCompleted:
		if doc.CompletedDate == "" {
			doc.CompletedDate = now
		}
		action = models.ActionCompleted
	case models.StatusCancelled:
		if doc.CancelledDate == "" {
			doc.CancelledDate = now
		}
		if dto.CancelReason != "" {
			doc.CancelReason = dto.CancelReason
		}
		action = models.ActionCancelled
	}

	if dto.Note != "" {
		doc.StaffNote = dto.Note
	}

	return models.HistoryEntry{
		Timestamp: now,
		Action:    action,
		StaffName: dto.StaffName,
		NewValue:  string(dto.Status),
	}
}

// normalizeFilterDate renders a filter date as the ISO-8601 form stored on
// documents so both backends can compare lexicographically.
func normalizeFilterDate(s string) (string, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

// normalize validates the date bounds and rewrites them into stored form.
func (f SearchFilters) normalize() (SearchFilters, error) {
	var err error
	if f.DateFrom != "" {
		if f.DateFrom, err = normalizeFilterDate(f.DateFrom); err != nil {
			return f, apperrors.NewValidationError("invalid dateFrom", "dateFrom", f.DateFrom)
		}
	}
	if f.DateTo != "" {
		if f.DateTo, err = normalizeFilterDate(f.DateTo); err != nil {
			return f, apperrors.NewValidationError("invalid dateTo", "dateTo", f.DateTo)
		}
	}
	return f, nil
}

// matchesFilters evaluates normalized search predicates against one document.
func matchesFilters(doc *models.Document, f SearchFilters) bool {
	if f.SenderName != "" &&
		!strings.Contains(strings.ToLower(doc.SenderName), strings.ToLower(f.SenderName)) {
		return false
	}
	if f.Department != "" && f.Department != "all" && doc.Department != f.Department {
		return false
	}
	if f.DateFrom != "" && doc.SubmittedDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && doc.SubmittedDate > f.DateTo {
		return false
	}
	return true
}

// ErrStaffNotFound and ErrUsernameTaken are the staff store's sentinel errors.
var (
	ErrStaffNotFound = errors.New("staff not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// StaffRepository persists staff accounts for login.
type StaffRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.StaffAuth, error)
	Create(ctx context.Context, staff *models.StaffAuth) error
	Update(ctx context.Context, staff *models.StaffAuth) error
}
