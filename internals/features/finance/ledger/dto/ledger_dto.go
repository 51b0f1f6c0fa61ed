package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
)

// AdjustmentCreateDTO: koreksi manual; diposting sebagai entry offsetting
// baru (entry lama tidak pernah diubah).
type AdjustmentCreateDTO struct {
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" validate:"required,max=300"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
}

type StatementResponse struct {
	Summary any                       `json:"summary"`
	Entries []ledgerModel.LedgerEntry `json:"entries"`
}
