package models

import (
	"time"

	"gorm.io/gorm"
)

// StaffAuth represents a staff member who can act on documents
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type StaffAuth struct {
	ID                  string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username            string     `gorm:"unique;not null" json:"username"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name,omitempty"`
	Department          string     `json:"department,omitempty"`
	Role                string     `gorm:"default:'staff'" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"isActive"`
	LastLogin           *time.Time `json:"lastLogin,omitempty"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for StaffAuth model
func (StaffAuth) TableName() string {
	return "staff_auths"
}
