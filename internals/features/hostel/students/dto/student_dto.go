package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FeeComponentDTO struct {
	FeeType string          `json:"fee_type" validate:"required,oneof=base_monthly laundry food other"`
	Amount  decimal.Decimal `json:"amount"`
}

type StudentCreateDTO struct {
	Name       string            `json:"name" validate:"required,max=120"`
	Phone      *string           `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string           `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Guardian   datatypes.JSONMap `json:"guardian,omitempty"`
	BedID      *uuid.UUID        `json:"bed_id,omitempty"`
	EnrolledAt *time.Time        `json:"enrolled_at,omitempty"`
	Fees       []FeeComponentDTO `json:"fees" validate:"omitempty,dive"`
}

type StudentUpdateDTO struct {
	Name     *string           `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone    *string           `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string           `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Guardian datatypes.JSONMap `json:"guardian,omitempty"`
}

type StudentListQuery struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

type AssignBedDTO struct {
	BedID uuid.UUID `json:"bed_id" validate:"required"`
}

type FeeComponentCreateDTO struct {
	FeeType       string          `json:"fee_type" validate:"required,oneof=base_monthly laundry food other"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
}
