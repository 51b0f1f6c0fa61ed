package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklist menyimpan JWT yang sudah di-logout sampai kadaluarsa,
// dibersihkan berkala oleh scheduler.
type TokenBlacklist struct {
	TokenBlacklistID uuid.UUID `gorm:"column:token_blacklist_id;type:uuid;primaryKey" json:"token_blacklist_id"`

	Token     string         `gorm:"column:token;type:text;not null;index" json:"token"`
	ExpiredAt time.Time      `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (TokenBlacklist) TableName() string { return "token_blacklists" }

func (m *TokenBlacklist) BeforeCreate(tx *gorm.DB) error {
	if m.TokenBlacklistID == uuid.Nil {
		m.TokenBlacklistID = uuid.New()
	}
	return nil
}
