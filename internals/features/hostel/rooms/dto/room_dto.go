package dto

import (
	"github.com/shopspring/decimal"
)

type RoomCreateDTO struct {
	Number      string          `json:"number" validate:"required,max=20"`
	Block       *string         `json:"block,omitempty" validate:"omitempty,max=20"`
	Floor       *int            `json:"floor,omitempty"`
	Capacity    int             `json:"capacity" validate:"required,min=1,max=20"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	Amenities   []string        `json:"amenities,omitempty"`

	// Label bed dibuat sekaligus; kosong → A, B, C... sebanyak capacity
	BedLabels []string `json:"bed_labels,omitempty" validate:"omitempty,dive,max=10"`
}

type RoomUpdateDTO struct {
	Block       *string          `json:"block,omitempty" validate:"omitempty,max=20"`
	Floor       *int             `json:"floor,omitempty"`
	MonthlyRate *decimal.Decimal `json:"monthly_rate,omitempty"`
	Amenities   []string         `json:"amenities,omitempty"`
}

type BedCreateDTO struct {
	Label string `json:"label" validate:"required,max=10"`
}

type BedStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=available maintenance"`
}
