package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status invoice
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
)

// =========================================================
// MODEL invoices
// =========================================================

type Invoice struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`

	// Nomor: INV-{year}{month:02d}-{studentCode}
	InvoiceNumber string `gorm:"column:invoice_number;type:varchar(40);not null;uniqueIndex" json:"invoice_number"`

	// FK → students
	InvoiceStudentID uuid.UUID `gorm:"column:invoice_student_id;type:uuid;not null;index;uniqueIndex:uniq_invoice_period,priority:1" json:"invoice_student_id"`

	// Periode penagihan
	InvoiceMonth int `gorm:"column:invoice_month;not null;uniqueIndex:uniq_invoice_period,priority:3" json:"invoice_month"`
	InvoiceYear  int `gorm:"column:invoice_year;not null;uniqueIndex:uniq_invoice_period,priority:2" json:"invoice_year"`

	InvoiceTotal          decimal.Decimal `gorm:"column:invoice_total;type:numeric(14,2);not null" json:"invoice_total"`
	InvoicePaidAmount     decimal.Decimal `gorm:"column:invoice_paid_amount;type:numeric(14,2);not null" json:"invoice_paid_amount"`
	InvoiceDiscountAmount decimal.Decimal `gorm:"column:invoice_discount_amount;type:numeric(14,2);not null" json:"invoice_discount_amount"`

	InvoiceStatus  InvoiceStatus `gorm:"column:invoice_status;type:varchar(20);not null;default:'unpaid';index" json:"invoice_status"`
	InvoiceDueDate time.Time     `gorm:"column:invoice_due_date;type:date;not null;index" json:"invoice_due_date"`

	InvoiceItems []InvoiceItem `gorm:"foreignKey:InvoiceItemInvoiceID;references:InvoiceID" json:"invoice_items,omitempty"`

	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;not null;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;not null;autoUpdateTime" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	return nil
}

// Outstanding = total − paid − discount (tidak pernah negatif).
func (m *Invoice) Outstanding() decimal.Decimal {
	out := m.InvoiceTotal.Sub(m.InvoicePaidAmount).Sub(m.InvoiceDiscountAmount)
	if out.Sign() < 0 {
		return decimal.Zero
	}
	return out
}

func (m *Invoice) IsOpen() bool {
	switch m.InvoiceStatus {
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

// RecomputeStatus menyelaraskan status dengan paid+discount vs total.
// Status overdue dipertahankan selama masih ada sisa tagihan.
func (m *Invoice) RecomputeStatus() {
	covered := m.InvoicePaidAmount.Add(m.InvoiceDiscountAmount)
	switch {
	case covered.GreaterThanOrEqual(m.InvoiceTotal):
		m.InvoiceStatus = InvoiceStatusPaid
	case covered.Sign() > 0:
		if m.InvoiceStatus != InvoiceStatusOverdue {
			m.InvoiceStatus = InvoiceStatusPartiallyPaid
		}
	default:
		if m.InvoiceStatus != InvoiceStatusOverdue {
			m.InvoiceStatus = InvoiceStatusUnpaid
		}
	}
}

// =========================================================
// MODEL invoice_items
// =========================================================

type InvoiceItem struct {
	InvoiceItemID uuid.UUID `gorm:"column:invoice_item_id;type:uuid;primaryKey" json:"invoice_item_id"`

	// FK → invoices
	InvoiceItemInvoiceID uuid.UUID `gorm:"column:invoice_item_invoice_id;type:uuid;not null;index" json:"invoice_item_invoice_id"`

	InvoiceItemDescription string          `gorm:"column:invoice_item_description;type:varchar(120);not null" json:"invoice_item_description"`
	InvoiceItemFeeType     string          `gorm:"column:invoice_item_fee_type;type:varchar(20);not null" json:"invoice_item_fee_type"`
	InvoiceItemAmount      decimal.Decimal `gorm:"column:invoice_item_amount;type:numeric(14,2);not null" json:"invoice_item_amount"`

	InvoiceItemCreatedAt time.Time `gorm:"column:invoice_item_created_at;not null;autoCreateTime" json:"invoice_item_created_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (m *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceItemID == uuid.Nil {
		m.InvoiceItemID = uuid.New()
	}
	return nil
}
