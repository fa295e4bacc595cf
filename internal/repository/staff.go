package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/database"
	"github.com/siamcare/doctrackgo/internal/models"
	"gorm.io/gorm"
)

// GormStaffRepository stores staff accounts in PostgreSQL.
type GormStaffRepository struct {
	db *database.DB
}

func NewGormStaffRepository(db *database.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) FindByUsername(ctx context.Context, username string) (*models.StaffAuth, error) {
	var staff models.StaffAuth
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, apperrors.WrapStorage("find staff", err)
	}
	return &staff, nil
}

func (r *GormStaffRepository) Create(ctx context.Context, staff *models.StaffAuth) error {
	err := r.db.WithContext(ctx).Create(staff).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return apperrors.WrapStorage("create staff", err)
}

func (r *GormStaffRepository) Update(ctx context.Context, staff *models.StaffAuth) error {
	return apperrors.WrapStorage("update staff", r.db.WithContext(ctx).Save(staff).Error)
}

// MemoryStaffRepository keeps staff accounts in memory. Used by the file
// storage backend and in tests, where no database is available.
type MemoryStaffRepository struct {
	mu    sync.Mutex
	staff map[string]models.StaffAuth
}

func NewMemoryStaffRepository() *MemoryStaffRepository {
	return &MemoryStaffRepository{staff: make(map[string]models.StaffAuth)}
}

func (r *MemoryStaffRepository) FindByUsername(ctx context.Context, username string) (*models.StaffAuth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[username]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return &staff, nil
}

func (r *MemoryStaffRepository) Create(ctx context.Context, staff *models.StaffAuth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.Username]; ok {
		return ErrUsernameTaken
	}
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	if staff.Role == "" {
		staff.Role = "staff"
	}
	staff.IsActive = true
	r.staff[staff.Username] = *staff
	return nil
}

func (r *MemoryStaffRepository) Update(ctx context.Context, staff *models.StaffAuth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.Username]; !ok {
		return ErrStaffNotFound
	}
	r.staff[staff.Username] = *staff
	return nil
}
