package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status charge
// =========================================================
//
// Transisi yang diizinkan hanya:
//   pending → applied   (entry ledger dibuat, charge jadi immutable)
//   pending → cancelled (tanpa efek ledger)

type AdminChargeStatus string

const (
	AdminChargeStatusPending   AdminChargeStatus = "pending"
	AdminChargeStatusApplied   AdminChargeStatus = "applied"
	AdminChargeStatusCancelled AdminChargeStatus = "cancelled"
)

func (s AdminChargeStatus) Label() string {
	switch s {
	case AdminChargeStatusPending:
		return "Pending"
	case AdminChargeStatusApplied:
		return "Applied"
	case AdminChargeStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// =========================================================
// MODEL admin_charges
// =========================================================

type AdminCharge struct {
	AdminChargeID uuid.UUID `gorm:"column:admin_charge_id;type:uuid;primaryKey" json:"admin_charge_id"`

	// FK → students
	AdminChargeStudentID uuid.UUID `gorm:"column:admin_charge_student_id;type:uuid;not null;index" json:"admin_charge_student_id"`

	AdminChargeTitle  string          `gorm:"column:admin_charge_title;type:varchar(120);not null" json:"admin_charge_title"`
	AdminChargeAmount decimal.Decimal `gorm:"column:admin_charge_amount;type:numeric(14,2);not null" json:"admin_charge_amount"`

	// Charge berulang: 1 = sekali; total diposting = amount × months
	AdminChargeMonths int `gorm:"column:admin_charge_months;not null;default:1" json:"admin_charge_months"`

	AdminChargeStatus AdminChargeStatus `gorm:"column:admin_charge_status;type:varchar(20);not null;default:'pending';index" json:"admin_charge_status"`
	AdminChargeNote   *string           `gorm:"column:admin_charge_note;type:text" json:"admin_charge_note,omitempty"`

	AdminChargeAppliedAt   *time.Time `gorm:"column:admin_charge_applied_at" json:"admin_charge_applied_at,omitempty"`
	AdminChargeCancelledAt *time.Time `gorm:"column:admin_charge_cancelled_at" json:"admin_charge_cancelled_at,omitempty"`

	AdminChargeCreatedAt time.Time      `gorm:"column:admin_charge_created_at;not null;autoCreateTime" json:"admin_charge_created_at"`
	AdminChargeUpdatedAt time.Time      `gorm:"column:admin_charge_updated_at;not null;autoUpdateTime" json:"admin_charge_updated_at"`
	AdminChargeDeletedAt gorm.DeletedAt `gorm:"column:admin_charge_deleted_at;index" json:"-"`
}

func (AdminCharge) TableName() string { return "admin_charges" }

func (m *AdminCharge) BeforeCreate(tx *gorm.DB) error {
	if m.AdminChargeID == uuid.Nil {
		m.AdminChargeID = uuid.New()
	}
	return nil
}

func (m *AdminCharge) IsPending() bool { return m.AdminChargeStatus == AdminChargeStatusPending }

// TotalAmount = amount × months.
func (m *AdminCharge) TotalAmount() decimal.Decimal {
	months := m.AdminChargeMonths
	if months < 1 {
		months = 1
	}
	return m.AdminChargeAmount.Mul(decimal.NewFromInt(int64(months)))
}
