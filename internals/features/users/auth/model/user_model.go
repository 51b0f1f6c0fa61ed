package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL users — operator admin hostel
// =========================================================

type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	UserName     string `gorm:"column:user_name;type:varchar(60);not null;uniqueIndex" json:"user_name"`
	UserEmail    string `gorm:"column:user_email;type:varchar(120);not null;uniqueIndex" json:"user_email"`
	UserPassword string `gorm:"column:user_password;type:varchar(120);not null" json:"-"`

	UserRole     string `gorm:"column:user_role;type:varchar(20);not null;default:'admin'" json:"user_role"`
	UserIsActive bool   `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	UserGoogleID *string `gorm:"column:user_google_id;type:varchar(60);uniqueIndex" json:"-"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;not null;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;not null;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

func (m *User) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
