package dto

import (
	"time"
)

// GenerateInvoicesDTO: satu run penagihan bulanan.
type GenerateInvoicesDTO struct {
	Month   int        `json:"month" validate:"required,min=1,max=12"`
	Year    int        `json:"year" validate:"required,min=2000,max=2100"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// InvoiceListQuery: filter untuk GET /invoices.
type InvoiceListQuery struct {
	StudentID string `query:"student_id"`
	Status    string `query:"status"`
	Month     int    `query:"month"`
	Year      int    `query:"year"`
}
