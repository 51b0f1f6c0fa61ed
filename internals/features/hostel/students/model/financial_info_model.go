package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — jenis komponen biaya bulanan
// =========================================================

type FeeType string

const (
	FeeTypeBaseMonthly FeeType = "base_monthly"
	FeeTypeLaundry     FeeType = "laundry"
	FeeTypeFood        FeeType = "food"
	FeeTypeOther       FeeType = "other"
)

// Label memberi deskripsi baris invoice untuk tiap jenis biaya.
func (t FeeType) Label() string {
	switch t {
	case FeeTypeBaseMonthly:
		return "Monthly Rent"
	case FeeTypeLaundry:
		return "Laundry Fee"
	case FeeTypeFood:
		return "Food Fee"
	case FeeTypeOther:
		return "Other Fee"
	default:
		return string(t)
	}
}

func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeBaseMonthly, FeeTypeLaundry, FeeTypeFood, FeeTypeOther:
		return true
	default:
		return false
	}
}

// =========================================================
// MODEL financial_infos — komponen biaya aktif per penghuni
// =========================================================

type FinancialInfo struct {
	FinancialInfoID uuid.UUID `gorm:"column:financial_info_id;type:uuid;primaryKey" json:"financial_info_id"`

	// FK → students
	FinancialInfoStudentID uuid.UUID `gorm:"column:financial_info_student_id;type:uuid;not null;index" json:"financial_info_student_id"`

	FinancialInfoFeeType FeeType         `gorm:"column:financial_info_fee_type;type:varchar(20);not null" json:"financial_info_fee_type"`
	FinancialInfoAmount  decimal.Decimal `gorm:"column:financial_info_amount;type:numeric(14,2);not null" json:"financial_info_amount"`

	// Hanya baris aktif yang ikut penagihan bulanan
	FinancialInfoIsActive      bool      `gorm:"column:financial_info_is_active;not null;default:true;index" json:"financial_info_is_active"`
	FinancialInfoEffectiveFrom time.Time `gorm:"column:financial_info_effective_from;type:date;not null" json:"financial_info_effective_from"`

	FinancialInfoCreatedAt time.Time      `gorm:"column:financial_info_created_at;not null;autoCreateTime" json:"financial_info_created_at"`
	FinancialInfoUpdatedAt time.Time      `gorm:"column:financial_info_updated_at;not null;autoUpdateTime" json:"financial_info_updated_at"`
	FinancialInfoDeletedAt gorm.DeletedAt `gorm:"column:financial_info_deleted_at;index" json:"-"`
}

func (FinancialInfo) TableName() string { return "financial_infos" }

func (m *FinancialInfo) BeforeCreate(tx *gorm.DB) error {
	if m.FinancialInfoID == uuid.Nil {
		m.FinancialInfoID = uuid.New()
	}
	if m.FinancialInfoEffectiveFrom.IsZero() {
		m.FinancialInfoEffectiveFrom = time.Now()
	}
	return nil
}
