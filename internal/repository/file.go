package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/utils"
)

// FileRepository stores the whole collection as one JSON array in a single
// file, the local key-value analog of the database backend. A read-through
// cache bounds parse overhead; it is invalidated on every write. The mutex
// serializes access within this process only.
type FileRepository struct {
	path  string
	mu    sync.Mutex
	cache DocumentCache
	log   logging.Logger
}

// NewFileRepository creates the store directory if needed.
func NewFileRepository(path string, cache DocumentCache, log logging.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &FileRepository{path: path, cache: cache, log: log}, nil
}

// storedDocument is the on-disk record. The document's version token is
// excluded from the API wire shape, so the store carries it in an envelope
// field of its own; losing it on reload would turn every guarded write into
// a false conflict.
type storedDocument struct {
	models.Document
	Version int `json:"version"`
}

// load returns the collection, from cache when fresh. Callers hold r.mu.
func (r *FileRepository) load() ([]models.Document, error) {
	if docs, ok := r.cache.Get(); ok {
		return docs, nil
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []models.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var stored []storedDocument
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt document store %s: %w", r.path, err)
	}
	docs := make([]models.Document, len(stored))
	for i := range stored {
		docs[i] = stored[i].Document
		docs[i].Version = stored[i].Version
		if docs[i].Version == 0 {
			// Files written before versions were tracked.
			docs[i].Version = 1
		}
	}
	r.cache.Set(docs)
	return docs, nil
}

// save writes the collection atomically and drops the cache. Callers hold r.mu.
func (r *FileRepository) save(docs []models.Document) error {
	r.cache.Invalidate()

	stored := make([]storedDocument, len(docs))
	for i := range docs {
		stored[i] = storedDocument{Document: docs[i], Version: docs[i].Version}
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func indexByID(docs []models.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

func copyDocs(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	copy(out, docs)
	return out
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("find document", err)
	}
	i := indexByID(docs, id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError(id)
	}
	doc := docs[i]
	return &doc, nil
}

func (r *FileRepository) FindAll(ctx context.Context) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("list documents", err)
	}
	return copyDocs(docs), nil
}

func (r *FileRepository) FindByDepartment(ctx context.Context, department string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("list documents by department", err)
	}
	var out []models.Document
	for _, doc := range docs {
		if doc.Department == department {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *FileRepository) Search(ctx context.Context, filters SearchFilters) ([]models.Document, error) {
	filters, err := filters.normalize()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("search documents", err)
	}
	var out []models.Document
	for i := range docs {
		if matchesFilters(&docs[i], filters) {
			out = append(out, docs[i])
		}
	}
	return out, nil
}

func (r *FileRepository) Create(ctx context.Context, dto models.CreateDocumentDto) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("create document", err)
	}

	now := time.Now().UTC()
	prefix := utils.DocumentIDPrefix(now)
	lastID := ""
	for i := range docs {
		if strings.HasPrefix(docs[i].ID, prefix) && docs[i].ID > lastID {
			lastID = docs[i].ID
		}
	}

	id := utils.NextDocumentID(lastID, now)
	if indexByID(docs, id) >= 0 {
		return nil, &apperrors.DuplicateDocumentError{ID: id}
	}

	timestamp := models.Timestamp()
	doc := models.Document{
		ID:            id,
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

	docs = append(docs, doc)
	if err := r.save(docs); err != nil {
		return nil, apperrors.WrapStorage("create document", err)
	}

	r.log.Info(ctx, "document created", "id", doc.ID, "department", doc.Department)
	return &doc, nil
}

func (r *FileRepository) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return apperrors.WrapStorage("update document", err)
	}
	i := indexByID(docs, doc.ID)
	if i < 0 {
		return apperrors.NewNotFoundError(doc.ID)
	}
	if docs[i].Version != doc.Version {
		return &apperrors.ConflictError{ID: doc.ID, ExpectedVersion: doc.Version}
	}

	doc.Version++
	docs[i] = *doc
	if err := r.save(docs); err != nil {
		return apperrors.WrapStorage("update document", err)
	}
	return nil
}

func (r *FileRepository) UpdateStatus(ctx context.Context, id string, dto models.UpdateStatusDto) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("update document status", err)
	}
	i := indexByID(docs, id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError(id)
	}
	if !models.CanTransition(docs[i].Status, dto.Status) {
		return nil, &apperrors.InvalidTransitionError{From: string(docs[i].Status), To: string(dto.Status)}
	}

	doc := docs[i]
	entry := applyStatusUpdate(&doc, dto)
	doc.History = append(copyHistory(doc.History), entry)
	doc.Version++
	docs[i] = doc

	if err := r.save(docs); err != nil {
		return nil, apperrors.WrapStorage("update document status", err)
	}

	r.log.Info(ctx, "document status updated", "id", id, "status", string(dto.Status))
	return &doc, nil
}

func (r *FileRepository) AddHistory(ctx context.Context, id string, entry models.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return apperrors.WrapStorage("append history", err)
	}
	i := indexByID(docs, id)
	if i < 0 {
		return apperrors.NewNotFoundError(id)
	}

	if entry.Timestamp == "" {
		entry.Timestamp = models.Timestamp()
	}
	docs[i].History = append(copyHistory(docs[i].History), entry)
	docs[i].Version++

	if err := r.save(docs); err != nil {
		return apperrors.WrapStorage("append history", err)
	}
	return nil
}

func (r *FileRepository) AddNote(ctx context.Context, id string, note string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("add note", err)
	}
	i := indexByID(docs, id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError(id)
	}

	docs[i].StaffNote = note
	docs[i].History = append(copyHistory(docs[i].History), models.HistoryEntry{
		Timestamp: models.Timestamp(),
		Action:    models.ActionNoteAdded,
		Note:      note,
	})
	docs[i].Version++

	if err := r.save(docs); err != nil {
		return nil, apperrors.WrapStorage("add note", err)
	}
	doc := docs[i]
	return &doc, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return apperrors.WrapStorage("delete document", err)
	}
	i := indexByID(docs, id)
	if i < 0 {
		return apperrors.NewNotFoundError(id)
	}

	docs = append(docs[:i], docs[i+1:]...)
	if err := r.save(docs); err != nil {
		return apperrors.WrapStorage("delete document", err)
	}
	return nil
}

func (r *FileRepository) GetStatistics(ctx context.Context) (*Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, err := r.load()
	if err != nil {
		return nil, apperrors.WrapStorage("collect statistics", err)
	}

	stats := newStatistics()
	stats.Total = len(docs)
	for i := range docs {
		stats.ByStatus[string(docs[i].Status)]++
		stats.ByDepartment[docs[i].Department]++
	}
	return stats, nil
}

// copyHistory clones the slice before appending so cached documents never
// share backing arrays with saved ones.
func copyHistory(h []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(h))
	copy(out, h)
	return out
}
