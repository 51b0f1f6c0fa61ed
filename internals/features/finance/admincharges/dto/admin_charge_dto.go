package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdminChargeCreateDTO struct {
	StudentID uuid.UUID       `json:"student_id" validate:"required"`
	Title     string          `json:"title" validate:"required,max=120"`
	Amount    decimal.Decimal `json:"amount"`
	Months    int             `json:"months" validate:"required,min=1,max=12"`
	Note      *string         `json:"note,omitempty" validate:"omitempty,max=300"`
}

type AdminChargeUpdateDTO struct {
	Title  *string          `json:"title,omitempty" validate:"omitempty,max=120"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Months *int             `json:"months,omitempty" validate:"omitempty,min=1,max=12"`
	Note   *string          `json:"note,omitempty" validate:"omitempty,max=300"`
}

type AdminChargeListQuery struct {
	StudentID string `query:"student_id"`
	Status    string `query:"status"`
}
