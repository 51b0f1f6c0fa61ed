package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status & jenis diskon
// =========================================================

type DiscountStatus string

const (
	DiscountStatusActive    DiscountStatus = "active"
	DiscountStatusApplied   DiscountStatus = "applied"
	DiscountStatusExpired   DiscountStatus = "expired"
	DiscountStatusCancelled DiscountStatus = "cancelled"
)

type DiscountKind string

const (
	DiscountKindAmount  DiscountKind = "amount"  // potongan nominal
	DiscountKindPercent DiscountKind = "percent" // % dari total invoice target
)

// =========================================================
// MODEL discounts
// =========================================================

type Discount struct {
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;primaryKey" json:"discount_id"`

	// FK → students
	DiscountStudentID uuid.UUID `gorm:"column:discount_student_id;type:uuid;not null;index" json:"discount_student_id"`

	DiscountKind  DiscountKind    `gorm:"column:discount_kind;type:varchar(10);not null" json:"discount_kind"`
	DiscountValue decimal.Decimal `gorm:"column:discount_value;type:numeric(14,2);not null" json:"discount_value"`

	// Target opsional: diskon spesifik invoice; nil = diskon saldo ledger
	DiscountInvoiceID *uuid.UUID `gorm:"column:discount_invoice_id;type:uuid;index" json:"discount_invoice_id,omitempty"`

	// Jendela berlaku
	DiscountValidFrom  time.Time `gorm:"column:discount_valid_from;type:date;not null" json:"discount_valid_from"`
	DiscountValidUntil time.Time `gorm:"column:discount_valid_until;type:date;not null" json:"discount_valid_until"`

	DiscountStatus DiscountStatus `gorm:"column:discount_status;type:varchar(20);not null;default:'active';index" json:"discount_status"`
	DiscountReason *string        `gorm:"column:discount_reason;type:text" json:"discount_reason,omitempty"`

	// Terisi saat Apply (nominal final yang diposting ke ledger)
	DiscountAppliedAmount *decimal.Decimal `gorm:"column:discount_applied_amount;type:numeric(14,2)" json:"discount_applied_amount,omitempty"`
	DiscountAppliedAt     *time.Time       `gorm:"column:discount_applied_at" json:"discount_applied_at,omitempty"`

	DiscountCreatedAt time.Time      `gorm:"column:discount_created_at;not null;autoCreateTime" json:"discount_created_at"`
	DiscountUpdatedAt time.Time      `gorm:"column:discount_updated_at;not null;autoUpdateTime" json:"discount_updated_at"`
	DiscountDeletedAt gorm.DeletedAt `gorm:"column:discount_deleted_at;index" json:"-"`
}

func (Discount) TableName() string { return "discounts" }

func (m *Discount) BeforeCreate(tx *gorm.DB) error {
	if m.DiscountID == uuid.Nil {
		m.DiscountID = uuid.New()
	}
	return nil
}

// ValidAt memeriksa jendela berlaku (inklusif di kedua ujung).
func (m *Discount) ValidAt(at time.Time) bool {
	day := at.Truncate(24 * time.Hour)
	return !day.Before(m.DiscountValidFrom.Truncate(24*time.Hour)) &&
		!day.After(m.DiscountValidUntil.Truncate(24*time.Hour))
}
