package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// MODEL checkout_records — daftar "checked-out-with-dues"
// =========================================================
//
// Satu baris per checkout yang di-override dengan tunggakan; dipakai
// bagian penagihan untuk follow-up. cleared = tunggakan sudah lunas.

type CheckoutRecord struct {
	CheckoutRecordID uuid.UUID `gorm:"column:checkout_record_id;type:uuid;primaryKey" json:"checkout_record_id"`

	// FK → students
	CheckoutRecordStudentID uuid.UUID `gorm:"column:checkout_record_student_id;type:uuid;not null;index" json:"checkout_record_student_id"`

	CheckoutRecordDate        time.Time       `gorm:"column:checkout_record_date;not null" json:"checkout_record_date"`
	CheckoutRecordOutstanding decimal.Decimal `gorm:"column:checkout_record_outstanding;type:numeric(14,2);not null" json:"checkout_record_outstanding"`

	CheckoutRecordCleared   bool       `gorm:"column:checkout_record_cleared;not null;default:false;index" json:"checkout_record_cleared"`
	CheckoutRecordClearedAt *time.Time `gorm:"column:checkout_record_cleared_at" json:"checkout_record_cleared_at,omitempty"`

	CheckoutRecordNote *string `gorm:"column:checkout_record_note;type:text" json:"checkout_record_note,omitempty"`

	CheckoutRecordCreatedAt time.Time `gorm:"column:checkout_record_created_at;not null;autoCreateTime" json:"checkout_record_created_at"`
	CheckoutRecordUpdatedAt time.Time `gorm:"column:checkout_record_updated_at;not null;autoUpdateTime" json:"checkout_record_updated_at"`
}

func (CheckoutRecord) TableName() string { return "checkout_records" }

func (m *CheckoutRecord) BeforeCreate(tx *gorm.DB) error {
	if m.CheckoutRecordID == uuid.Nil {
		m.CheckoutRecordID = uuid.New()
	}
	if m.CheckoutRecordDate.IsZero() {
		m.CheckoutRecordDate = time.Now()
	}
	return nil
}
