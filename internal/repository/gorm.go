package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/database"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository is the PostgreSQL-backed document store.
type GormRepository struct {
	db  *database.DB
	log logging.Logger
}

// NewGormRepository creates a repository on an established database connection.
func NewGormRepository(db *database.DB, log logging.Logger) *GormRepository {
	return &GormRepository{db: db, log: log}
}

// documentColumns maps a document onto its update column set. Written as a
// map so cleared fields still overwrite their columns.
func documentColumns(doc *models.Document, version int) map[string]interface{} {
	return map[string]interface{}{
		"sender_name":    doc.SenderName,
		"department":     doc.Department,
		"document_type":  doc.DocumentType,
		"week_range":     doc.WeekRange,
		"details":        doc.Details,
		"status":         doc.Status,
		"submitted_date": doc.SubmittedDate,
		"received_date":  doc.ReceivedDate,
		"completed_date": doc.CompletedDate,
		"cancelled_date": doc.CancelledDate,
		"cancel_reason":  doc.CancelReason,
		"staff_note":     doc.StaffNote,
		"history":        doc.History,
		"version":        version,
	}
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).Where("document_id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.WrapStorage("find document", err)
	}
	return &doc, nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.WithContext(ctx).Order("document_id ASC").Find(&docs).Error; err != nil {
		return nil, apperrors.WrapStorage("list documents", err)
	}
	return docs, nil
}

func (r *GormRepository) FindByDepartment(ctx context.Context, department string) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("document_id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, apperrors.WrapStorage("list documents by department", err)
	}
	return docs, nil
}

func (r *GormRepository) Search(ctx context.Context, filters SearchFilters) ([]models.Document, error) {
	filters, err := filters.normalize()
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Document{})
	if filters.SenderName != "" {
		q = q.Where("LOWER(sender_name) LIKE ?", "%"+escapeLike(strings.ToLower(filters.SenderName))+"%")
	}
	if filters.Department != "" && filters.Department != "all" {
		q = q.Where("department = ?", filters.Department)
	}
	if filters.DateFrom != "" {
		q = q.Where("submitted_date >= ?", filters.DateFrom)
	}
	if filters.DateTo != "" {
		q = q.Where("submitted_date <= ?", filters.DateTo)
	}

	var docs []models.Document
	if err := q.Order("document_id ASC").Find(&docs).Error; err != nil {
		return nil, apperrors.WrapStorage("search documents", err)
	}
	return docs, nil
}

func (r *GormRepository) Create(ctx context.Context, dto models.CreateDocumentDto) (*models.Document, error) {
	now := time.Now().UTC()
	var created *models.Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Date-scoped sequence: continue from the highest id issued today.
		var ids []string
		err := tx.Model(&models.Document{}).
			Where("document_id LIKE ?", utils.DocumentIDPrefix(now)+"%").
			Order("document_id DESC").
			Limit(1).
			Pluck("document_id", &ids).Error
		if err != nil {
			return err
		}
		lastID := ""
		if len(ids) > 0 {
			lastID = ids[0]
		}

		timestamp := models.Timestamp()
		doc := &models.Document{
			ID:            utils.NextDocumentID(lastID, now),
			SenderName:    dto.SenderName,
			Department:    dto.Department,
			DocumentType:  dto.DocumentType,
			WeekRange:     dto.WeekRange,
			Details:       dto.Details,
			Status:        models.StatusPending,
			SubmittedDate: timestamp,
			History: []models.HistoryEntry{
				{Timestamp: timestamp, Action: models.ActionCreated},
			},
			Version: 1,
		}

		if err := tx.Create(doc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperrors.DuplicateDocumentError{ID: doc.ID}
			}
			return err
		}
		created = doc
		return nil
	})
	if err != nil {
		return nil, apperrors.WrapStorage("create document", err)
	}

	r.log.Info(ctx, "document created", "id", created.ID, "department", created.Department)
	return created, nil
}

func (r *GormRepository) Update(ctx context.Context, doc *models.Document) error {
	res := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("document_id = ? AND version = ?", doc.ID, doc.Version).
		Updates(documentColumns(doc, doc.Version+1))
	if res.Error != nil {
		return apperrors.WrapStorage("update document", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, doc.ID, doc.Version)
	}
	doc.Version++
	return nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, dto models.UpdateStatusDto) (*models.Document, error) {
	var updated *models.Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_id = ?", id).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(id)
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(doc.Status, dto.Status) {
			return &apperrors.InvalidTransitionError{From: string(doc.Status), To: string(dto.Status)}
		}

		entry := applyStatusUpdate(&doc, dto)
		doc.History = append(doc.History, entry)

		res := tx.Model(&models.Document{}).
			Where("document_id = ? AND version = ?", id, doc.Version).
			Updates(documentColumns(&doc, doc.Version+1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperrors.ConflictError{ID: id, ExpectedVersion: doc.Version}
		}
		doc.Version++
		updated = &doc
		return nil
	})
	if err != nil {
		return nil, apperrors.WrapStorage("update document status", err)
	}

	r.log.Info(ctx, "document status updated", "id", id, "status", string(dto.Status))
	return updated, nil
}

func (r *GormRepository) AddHistory(ctx context.Context, id string, entry models.HistoryEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_id = ?", id).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(id)
		}
		if err != nil {
			return err
		}

		if entry.Timestamp == "" {
			entry.Timestamp = models.Timestamp()
		}
		doc.History = append(doc.History, entry)

		res := tx.Model(&models.Document{}).
			Where("document_id = ? AND version = ?", id, doc.Version).
			Updates(map[string]interface{}{"history": doc.History, "version": doc.Version + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperrors.ConflictError{ID: id, ExpectedVersion: doc.Version}
		}
		return nil
	})
	return apperrors.WrapStorage("append history", err)
}

func (r *GormRepository) AddNote(ctx context.Context, id string, note string) (*models.Document, error) {
	var updated *models.Document

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_id = ?", id).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(id)
		}
		if err != nil {
			return err
		}

		doc.StaffNote = note
		doc.History = append(doc.History, models.HistoryEntry{
			Timestamp: models.Timestamp(),
			Action:    models.ActionNoteAdded,
			Note:      note,
		})

		res := tx.Model(&models.Document{}).
			Where("document_id = ? AND version = ?", id, doc.Version).
			Updates(map[string]interface{}{
				"staff_note": doc.StaffNote,
				"history":    doc.History,
				"version":    doc.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &apperrors.ConflictError{ID: id, ExpectedVersion: doc.Version}
		}
		doc.Version++
		updated = &doc
		return nil
	})
	if err != nil {
		return nil, apperrors.WrapStorage("add note", err)
	}
	return updated, nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("document_id = ?", id).Delete(&models.Document{})
	if res.Error != nil {
		return apperrors.WrapStorage("delete document", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError(id)
	}
	return nil
}

func (r *GormRepository) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := newStatistics()

	type countRow struct {
		Key   string
		Count int
	}

	var byStatus []countRow
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, apperrors.WrapStorage("count by status", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Key] = row.Count
		stats.Total += row.Count
	}

	var byDepartment []countRow
	err = r.db.WithContext(ctx).Model(&models.Document{}).
		Select("department AS key, COUNT(*) AS count").
		Group("department").
		Scan(&byDepartment).Error
	if err != nil {
		return nil, apperrors.WrapStorage("count by department", err)
	}
	for _, row := range byDepartment {
		stats.ByDepartment[row.Key] = row.Count
	}

	return stats, nil
}

// escapeLike neutralizes LIKE metacharacters so sender-name search matches
// them literally, the same way the file backend's substring match does.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// missOrConflict resolves a zero-row guarded update into the right error.
func (r *GormRepository) missOrConflict(ctx context.Context, id string, version int) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("document_id = ?", id).
		Count(&count).Error; err != nil {
		return apperrors.WrapStorage("update document", err)
	}
	if count == 0 {
		return apperrors.NewNotFoundError(id)
	}
	return &apperrors.ConflictError{ID: id, ExpectedVersion: version}
}
