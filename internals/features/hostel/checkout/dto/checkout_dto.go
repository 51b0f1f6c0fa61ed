package dto

import "time"

type CheckoutRequestDTO struct {
	Date     *time.Time `json:"date,omitempty"`
	Override bool       `json:"override"`
	Note     *string    `json:"note,omitempty" validate:"omitempty,max=300"`
}
