package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountCreateDTO struct {
	StudentID  uuid.UUID       `json:"student_id" validate:"required"`
	Kind       string          `json:"kind" validate:"required,oneof=amount percent"`
	Value      decimal.Decimal `json:"value"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	ValidFrom  time.Time       `json:"valid_from" validate:"required"`
	ValidUntil time.Time       `json:"valid_until" validate:"required"`
	Reason     *string         `json:"reason,omitempty" validate:"omitempty,max=300"`
}

type DiscountListQuery struct {
	StudentID string `query:"student_id"`
	Status    string `query:"status"`
}
