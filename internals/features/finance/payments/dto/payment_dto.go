package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AllocationDTO struct {
	InvoiceID uuid.UUID       `json:"invoice_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentCreateDTO: pembayaran manual (cash/transfer/cheque).
// Allocations kosong = auto oldest-first.
type PaymentCreateDTO struct {
	StudentID   uuid.UUID       `json:"student_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" validate:"required,oneof=cash bank_transfer cheque"`
	Reference   *string         `json:"reference,omitempty" validate:"omitempty,max=80"`
	Allocations []AllocationDTO `json:"allocations,omitempty" validate:"omitempty,dive"`
}

type PaymentAllocateDTO struct {
	Allocations []AllocationDTO `json:"allocations" validate:"required,min=1,dive"`
}

// GatewayPaymentDTO: pembayaran online via Midtrans Snap.
type GatewayPaymentDTO struct {
	StudentID uuid.UUID       `json:"student_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

type PaymentListQuery struct {
	StudentID string `query:"student_id"`
	Status    string `query:"status"`
	Method    string `query:"method"`
}
