package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billingModel "hostelku_backend/internals/features/finance/billings/model"
	discountModel "hostelku_backend/internals/features/finance/discounts/model"
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	helper "hostelku_backend/internals/helpers"
)

type DiscountService struct {
	DB *gorm.DB
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{DB: db}
}

// Apply memposting diskon sebagai credit ledger. Diskon persen wajib punya
// invoice target (persen dihitung dari total invoice). Diskon spesifik
// invoice juga menambah discount_amount invoice tersebut.
func (s *DiscountService) Apply(discountID uuid.UUID, at time.Time) (*discountModel.Discount, error) {
	if at.IsZero() {
		at = time.Now()
	}

	var d discountModel.Discount
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&d, "discount_id = ?", discountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: discount %s", helper.ErrNotFound, discountID)
			}
			return err
		}

		if d.DiscountStatus != discountModel.DiscountStatusActive {
			return fmt.Errorf("%w: discount berstatus %s", helper.ErrInvalidTransition, d.DiscountStatus)
		}
		if !d.ValidAt(at) {
			return fmt.Errorf("%w: di luar jendela berlaku", helper.ErrInvalidTransition)
		}

		var inv *billingModel.Invoice
		if d.DiscountInvoiceID != nil {
			inv = &billingModel.Invoice{}
			if err := tx.First(inv, "invoice_id = ?", *d.DiscountInvoiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: invoice %s", helper.ErrNotFound, *d.DiscountInvoiceID)
				}
				return err
			}
		}

		amount := d.DiscountValue
		if d.DiscountKind == discountModel.DiscountKindPercent {
			if inv == nil {
				return fmt.Errorf("%w: diskon persen butuh invoice target", helper.ErrInvalidArgument)
			}
			amount = inv.InvoiceTotal.
				Mul(d.DiscountValue).
				DivRound(decimal.NewFromInt(100), 2)
		}
		if amount.Sign() <= 0 {
			return fmt.Errorf("%w: nominal diskon harus > 0", helper.ErrInvalidArgument)
		}

		if inv != nil {
			if amount.GreaterThan(inv.Outstanding()) {
				return fmt.Errorf("%w: diskon %s melebihi outstanding invoice %s",
					helper.ErrInvalidArgument, amount.StringFixed(2), inv.Outstanding().StringFixed(2))
			}
			inv.InvoiceDiscountAmount = inv.InvoiceDiscountAmount.Add(amount)
			inv.RecomputeStatus()
			if err := tx.Model(&billingModel.Invoice{}).
				Where("invoice_id = ?", inv.InvoiceID).
				Updates(map[string]any{
					"invoice_discount_amount": inv.InvoiceDiscountAmount,
					"invoice_status":          inv.InvoiceStatus,
				}).Error; err != nil {
				return err
			}
		}

		desc := "Discount"
		if inv != nil {
			desc = fmt.Sprintf("Discount on %s", inv.InvoiceNumber)
		}
		if _, err := ledgerService.AddEntryTx(tx, ledgerService.AddEntryInput{
			StudentID:   d.DiscountStudentID,
			Type:        ledgerModel.LedgerEntryTypeDiscount,
			Debit:       decimal.Zero,
			Credit:      amount,
			ReferenceID: &d.DiscountID,
			Description: desc,
			Date:        at,
		}); err != nil {
			return err
		}

		now := at
		d.DiscountStatus = discountModel.DiscountStatusApplied
		d.DiscountAppliedAmount = &amount
		d.DiscountAppliedAt = &now
		return tx.Model(&discountModel.Discount{}).
			Where("discount_id = ?", d.DiscountID).
			Updates(map[string]any{
				"discount_status":         d.DiscountStatus,
				"discount_applied_amount": amount,
				"discount_applied_at":     now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Cancel hanya boleh untuk diskon yang masih active (belum diposting).
func (s *DiscountService) Cancel(discountID uuid.UUID) (*discountModel.Discount, error) {
	var d discountModel.Discount
	if err := s.DB.First(&d, "discount_id = ?", discountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: discount %s", helper.ErrNotFound, discountID)
		}
		return nil, err
	}
	if d.DiscountStatus != discountModel.DiscountStatusActive {
		return nil, fmt.Errorf("%w: discount berstatus %s", helper.ErrInvalidTransition, d.DiscountStatus)
	}
	d.DiscountStatus = discountModel.DiscountStatusCancelled
	if err := s.DB.Model(&discountModel.Discount{}).
		Where("discount_id = ?", d.DiscountID).
		Update("discount_status", d.DiscountStatus).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ExpireStale menandai diskon active yang lewat jendela berlaku.
func (s *DiscountService) ExpireStale(now time.Time) (int64, error) {
	res := s.DB.Model(&discountModel.Discount{}).
		Where("discount_status = ? AND discount_valid_until < ?", discountModel.DiscountStatusActive, now).
		Update("discount_status", discountModel.DiscountStatusExpired)
	return res.RowsAffected, res.Error
}
