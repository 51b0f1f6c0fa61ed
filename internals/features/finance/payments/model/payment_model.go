package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending   = "pending" // menunggu callback gateway
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOnline       = "online" // via Midtrans Snap
	PaymentMethodCheque       = "cheque"
)

/* ===================== Model ===================== */

type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	// FK → students
	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`

	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:numeric(14,2);not null" json:"payment_amount"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	PaymentStatus string          `gorm:"column:payment_status;type:varchar(20);not null;default:'completed';index" json:"payment_status"`

	PaymentDate      time.Time `gorm:"column:payment_date;not null" json:"payment_date"`
	PaymentReference *string   `gorm:"column:payment_reference;type:varchar(80)" json:"payment_reference,omitempty"`

	// Pembukuan alokasi: allocated = Σ baris alokasi, advance = sisa yang
	// diposting sebagai credit advance. Unallocated = amount − keduanya.
	PaymentAllocatedAmount decimal.Decimal `gorm:"column:payment_allocated_amount;type:numeric(14,2);not null" json:"payment_allocated_amount"`
	PaymentAdvanceAmount   decimal.Decimal `gorm:"column:payment_advance_amount;type:numeric(14,2);not null" json:"payment_advance_amount"`

	// Info gateway (hanya untuk method online)
	PaymentOrderID     *string `gorm:"column:payment_order_id;type:varchar(60);uniqueIndex" json:"payment_order_id,omitempty"`
	PaymentCheckoutURL *string `gorm:"column:payment_checkout_url" json:"payment_checkout_url,omitempty"`

	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;not null;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;not null;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentDate.IsZero() {
		m.PaymentDate = time.Now()
	}
	return nil
}

func (m *Payment) IsCompleted() bool { return m.PaymentStatus == PaymentStatusCompleted }
func (m *Payment) IsGateway() bool   { return m.PaymentMethod == PaymentMethodOnline }

// Unallocated = sisa pembayaran yang belum dialokasikan ke invoice
// maupun diposting sebagai advance.
func (m *Payment) Unallocated() decimal.Decimal {
	rem := m.PaymentAmount.Sub(m.PaymentAllocatedAmount).Sub(m.PaymentAdvanceAmount)
	if rem.Sign() < 0 {
		return decimal.Zero
	}
	return rem
}

/* ===================== Allocations ===================== */

// PaymentInvoiceAllocation mencatat porsi pembayaran yang diterapkan ke
// satu invoice. Σ amount per payment ≤ payment_amount.
type PaymentInvoiceAllocation struct {
	AllocationID uuid.UUID `gorm:"column:allocation_id;type:uuid;primaryKey" json:"allocation_id"`

	// FK → payments
	AllocationPaymentID uuid.UUID `gorm:"column:allocation_payment_id;type:uuid;not null;index" json:"allocation_payment_id"`
	// FK → invoices
	AllocationInvoiceID uuid.UUID `gorm:"column:allocation_invoice_id;type:uuid;not null;index" json:"allocation_invoice_id"`

	AllocationAmount decimal.Decimal `gorm:"column:allocation_amount;type:numeric(14,2);not null" json:"allocation_amount"`

	AllocationCreatedAt time.Time `gorm:"column:allocation_created_at;not null;autoCreateTime" json:"allocation_created_at"`
}

func (PaymentInvoiceAllocation) TableName() string { return "payment_invoice_allocations" }

func (m *PaymentInvoiceAllocation) BeforeCreate(tx *gorm.DB) error {
	if m.AllocationID == uuid.Nil {
		m.AllocationID = uuid.New()
	}
	return nil
}
