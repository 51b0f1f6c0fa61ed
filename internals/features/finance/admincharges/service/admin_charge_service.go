package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	chargeModel "hostelku_backend/internals/features/finance/admincharges/model"
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	helper "hostelku_backend/internals/helpers"
)

type AdminChargeService struct {
	DB *gorm.DB
}

func NewAdminChargeService(db *gorm.DB) *AdminChargeService {
	return &AdminChargeService{DB: db}
}

type CreateChargeInput struct {
	StudentID uuid.UUID
	Title     string
	Amount    decimal.Decimal
	Months    int // 1 = sekali; total = amount × months
	Note      *string
}

func (s *AdminChargeService) Create(in CreateChargeInput) (*chargeModel.AdminCharge, error) {
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount harus > 0", helper.ErrInvalidArgument)
	}
	if in.Months < 1 || in.Months > 12 {
		return nil, fmt.Errorf("%w: months %d di luar 1..12", helper.ErrInvalidArgument, in.Months)
	}

	charge := &chargeModel.AdminCharge{
		AdminChargeStudentID: in.StudentID,
		AdminChargeTitle:     in.Title,
		AdminChargeAmount:    in.Amount,
		AdminChargeMonths:    in.Months,
		AdminChargeStatus:    chargeModel.AdminChargeStatusPending,
		AdminChargeNote:      in.Note,
	}
	if err := s.DB.Create(charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

// Apply: pending → applied; total amount × months diposting sebagai satu
// debit ledger. Setelah applied, charge immutable.
func (s *AdminChargeService) Apply(chargeID uuid.UUID) (*chargeModel.AdminCharge, error) {
	var charge chargeModel.AdminCharge
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&charge, "admin_charge_id = ?", chargeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: admin charge %s", helper.ErrNotFound, chargeID)
			}
			return err
		}
		if !charge.IsPending() {
			return fmt.Errorf("%w: charge berstatus %s, hanya pending yang bisa di-apply",
				helper.ErrInvalidTransition, charge.AdminChargeStatus)
		}

		if _, err := ledgerService.AddEntryTx(tx, ledgerService.AddEntryInput{
			StudentID:   charge.AdminChargeStudentID,
			Type:        ledgerModel.LedgerEntryTypeAdminCharge,
			Debit:       charge.TotalAmount(),
			Credit:      decimal.Zero,
			ReferenceID: &charge.AdminChargeID,
			Description: charge.AdminChargeTitle,
		}); err != nil {
			return err
		}

		now := time.Now()
		charge.AdminChargeStatus = chargeModel.AdminChargeStatusApplied
		charge.AdminChargeAppliedAt = &now
		return tx.Model(&chargeModel.AdminCharge{}).
			Where("admin_charge_id = ?", charge.AdminChargeID).
			Updates(map[string]any{
				"admin_charge_status":     charge.AdminChargeStatus,
				"admin_charge_applied_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// Cancel: pending → cancelled, tanpa efek ledger.
func (s *AdminChargeService) Cancel(chargeID uuid.UUID) (*chargeModel.AdminCharge, error) {
	var charge chargeModel.AdminCharge
	if err := s.DB.First(&charge, "admin_charge_id = ?", chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin charge %s", helper.ErrNotFound, chargeID)
		}
		return nil, err
	}
	if !charge.IsPending() {
		return nil, fmt.Errorf("%w: charge berstatus %s, hanya pending yang bisa dibatalkan",
			helper.ErrInvalidTransition, charge.AdminChargeStatus)
	}

	now := time.Now()
	charge.AdminChargeStatus = chargeModel.AdminChargeStatusCancelled
	charge.AdminChargeCancelledAt = &now
	if err := s.DB.Model(&chargeModel.AdminCharge{}).
		Where("admin_charge_id = ?", charge.AdminChargeID).
		Updates(map[string]any{
			"admin_charge_status":       charge.AdminChargeStatus,
			"admin_charge_cancelled_at": now,
		}).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

// Update hanya untuk charge pending (applied/cancelled immutable).
func (s *AdminChargeService) Update(chargeID uuid.UUID, title *string, amount *decimal.Decimal, months *int, note *string) (*chargeModel.AdminCharge, error) {
	var charge chargeModel.AdminCharge
	if err := s.DB.First(&charge, "admin_charge_id = ?", chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin charge %s", helper.ErrNotFound, chargeID)
		}
		return nil, err
	}
	if !charge.IsPending() {
		return nil, fmt.Errorf("%w: charge %s tidak bisa diubah",
			helper.ErrInvalidTransition, charge.AdminChargeStatus)
	}

	updates := map[string]any{}
	if title != nil {
		charge.AdminChargeTitle = *title
		updates["admin_charge_title"] = *title
	}
	if amount != nil {
		if amount.Sign() <= 0 {
			return nil, fmt.Errorf("%w: amount harus > 0", helper.ErrInvalidArgument)
		}
		charge.AdminChargeAmount = *amount
		updates["admin_charge_amount"] = *amount
	}
	if months != nil {
		if *months < 1 || *months > 12 {
			return nil, fmt.Errorf("%w: months %d di luar 1..12", helper.ErrInvalidArgument, *months)
		}
		charge.AdminChargeMonths = *months
		updates["admin_charge_months"] = *months
	}
	if note != nil {
		charge.AdminChargeNote = note
		updates["admin_charge_note"] = *note
	}
	if len(updates) == 0 {
		return &charge, nil
	}

	if err := s.DB.Model(&chargeModel.AdminCharge{}).
		Where("admin_charge_id = ?", charge.AdminChargeID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}
