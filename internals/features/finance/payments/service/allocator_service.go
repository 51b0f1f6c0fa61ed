package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billingModel "hostelku_backend/internals/features/finance/billings/model"
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	paymentModel "hostelku_backend/internals/features/finance/payments/model"
	helper "hostelku_backend/internals/helpers"
)

// =======================================================
// PAYMENT ALLOCATOR
// =======================================================
//
// Aturan: pembayaran diterapkan ke invoice terlama lebih dulu (due date
// paling awal). Tiap alokasi = satu baris payment_invoice_allocations +
// satu credit entry di ledger. Kelebihan di luar semua invoice outstanding
// diposting sebagai advance credit (saldo ledger negatif) dan otomatis
// termakan invoice berikutnya.

type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

type RecordPaymentInput struct {
	StudentID uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Reference *string
	Date      time.Time // zero = now

	// Alokasi eksplisit; kosong = auto oldest-first
	Allocations []AllocationInput
}

type AllocationInput struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

func validMethod(m string) bool {
	switch m {
	case paymentModel.PaymentMethodCash,
		paymentModel.PaymentMethodBankTransfer,
		paymentModel.PaymentMethodCheque,
		paymentModel.PaymentMethodOnline:
		return true
	default:
		return false
	}
}

// RecordPayment mencatat pembayaran manual (langsung completed) lalu
// mengalokasikannya: eksplisit bila diberikan, selain itu auto.
func (s *PaymentService) RecordPayment(in RecordPaymentInput) (*paymentModel.Payment, error) {
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount harus > 0", helper.ErrInvalidArgument)
	}
	if !validMethod(in.Method) {
		return nil, fmt.Errorf("%w: method %q tidak dikenal", helper.ErrInvalidArgument, in.Method)
	}
	if in.Method == paymentModel.PaymentMethodOnline {
		return nil, fmt.Errorf("%w: pembayaran online lewat endpoint gateway", helper.ErrInvalidArgument)
	}

	var pay *paymentModel.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		date := in.Date
		if date.IsZero() {
			date = time.Now()
		}
		pay = &paymentModel.Payment{
			PaymentStudentID:       in.StudentID,
			PaymentAmount:          in.Amount,
			PaymentMethod:          in.Method,
			PaymentStatus:          paymentModel.PaymentStatusCompleted,
			PaymentDate:            date,
			PaymentReference:       in.Reference,
			PaymentAllocatedAmount: decimal.Zero,
			PaymentAdvanceAmount:   decimal.Zero,
		}
		if err := tx.Create(pay).Error; err != nil {
			return err
		}

		if len(in.Allocations) > 0 {
			return allocateExplicitTx(tx, pay, in.Allocations)
		}
		return autoAllocateTx(tx, pay)
	})
	if err != nil {
		return nil, err
	}
	return pay, nil
}

// Allocate menerapkan alokasi eksplisit atas sisa pembayaran yang belum
// teralokasi. Melebihi sisa → InvalidArgument.
func (s *PaymentService) Allocate(paymentID uuid.UUID, allocs []AllocationInput) (*paymentModel.Payment, error) {
	if len(allocs) == 0 {
		return nil, fmt.Errorf("%w: daftar alokasi kosong", helper.ErrInvalidArgument)
	}

	var pay paymentModel.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pay, "payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %s", helper.ErrNotFound, paymentID)
			}
			return err
		}
		if !pay.IsCompleted() {
			return fmt.Errorf("%w: payment belum completed", helper.ErrInvalidTransition)
		}
		return allocateExplicitTx(tx, &pay, allocs)
	})
	if err != nil {
		return nil, err
	}
	return &pay, nil
}

// AutoAllocate menghabiskan sisa pembayaran: invoice terlama dulu,
// kelebihan jadi advance credit.
func (s *PaymentService) AutoAllocate(paymentID uuid.UUID) (*paymentModel.Payment, error) {
	var pay paymentModel.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pay, "payment_id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %s", helper.ErrNotFound, paymentID)
			}
			return err
		}
		if !pay.IsCompleted() {
			return fmt.Errorf("%w: payment belum completed", helper.ErrInvalidTransition)
		}
		return autoAllocateTx(tx, &pay)
	})
	if err != nil {
		return nil, err
	}
	return &pay, nil
}

/* ===================== internal ===================== */

func allocateExplicitTx(tx *gorm.DB, pay *paymentModel.Payment, allocs []AllocationInput) error {
	total := decimal.Zero
	for _, a := range allocs {
		if a.Amount.Sign() <= 0 {
			return fmt.Errorf("%w: alokasi harus > 0", helper.ErrInvalidArgument)
		}
		total = total.Add(a.Amount)
	}
	if total.GreaterThan(pay.Unallocated()) {
		return fmt.Errorf("%w: alokasi %s melebihi sisa %s",
			helper.ErrInvalidArgument, total.StringFixed(2), pay.Unallocated().StringFixed(2))
	}

	for _, a := range allocs {
		var inv billingModel.Invoice
		if err := tx.First(&inv, "invoice_id = ?", a.InvoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: invoice %s", helper.ErrNotFound, a.InvoiceID)
			}
			return err
		}
		if inv.InvoiceStudentID != pay.PaymentStudentID {
			return fmt.Errorf("%w: invoice %s bukan milik penghuni ini", helper.ErrInvalidArgument, inv.InvoiceNumber)
		}
		if !inv.IsOpen() {
			return fmt.Errorf("%w: invoice %s sudah lunas", helper.ErrInvalidArgument, inv.InvoiceNumber)
		}
		if a.Amount.GreaterThan(inv.Outstanding()) {
			return fmt.Errorf("%w: alokasi %s melebihi outstanding invoice %s (%s)",
				helper.ErrInvalidArgument, a.Amount.StringFixed(2), inv.InvoiceNumber, inv.Outstanding().StringFixed(2))
		}
		if err := applyAllocationTx(tx, pay, &inv, a.Amount); err != nil {
			return err
		}
	}
	return nil
}

func autoAllocateTx(tx *gorm.DB, pay *paymentModel.Payment) error {
	remaining := pay.Unallocated()
	if remaining.Sign() <= 0 {
		return nil
	}

	var open []billingModel.Invoice
	if err := tx.
		Where("invoice_student_id = ? AND invoice_status IN ?",
			pay.PaymentStudentID,
			[]billingModel.InvoiceStatus{
				billingModel.InvoiceStatusUnpaid,
				billingModel.InvoiceStatusPartiallyPaid,
				billingModel.InvoiceStatusOverdue,
			}).
		Order("invoice_due_date ASC, invoice_created_at ASC").
		Find(&open).Error; err != nil {
		return err
	}

	for i := range open {
		if remaining.Sign() <= 0 {
			break
		}
		out := open[i].Outstanding()
		if out.Sign() <= 0 {
			continue
		}
		portion := decimal.Min(remaining, out)
		if err := applyAllocationTx(tx, pay, &open[i], portion); err != nil {
			return err
		}
		remaining = remaining.Sub(portion)
	}

	// Sisa setelah semua invoice tertutup → advance credit.
	if remaining.Sign() > 0 {
		if _, err := ledgerService.AddEntryTx(tx, ledgerService.AddEntryInput{
			StudentID:   pay.PaymentStudentID,
			Type:        ledgerModel.LedgerEntryTypePayment,
			Debit:       decimal.Zero,
			Credit:      remaining,
			ReferenceID: &pay.PaymentID,
			Description: "Advance payment",
			Date:        pay.PaymentDate,
		}); err != nil {
			return err
		}
		pay.PaymentAdvanceAmount = pay.PaymentAdvanceAmount.Add(remaining)
		if err := tx.Model(&paymentModel.Payment{}).
			Where("payment_id = ?", pay.PaymentID).
			Update("payment_advance_amount", pay.PaymentAdvanceAmount).Error; err != nil {
			return err
		}
		log.Printf("[PAYMENT] %s advance %s", pay.PaymentID, remaining.StringFixed(2))
	}
	return nil
}

// applyAllocationTx: satu baris alokasi + update invoice + satu credit ledger.
func applyAllocationTx(tx *gorm.DB, pay *paymentModel.Payment, inv *billingModel.Invoice, amount decimal.Decimal) error {
	row := paymentModel.PaymentInvoiceAllocation{
		AllocationPaymentID: pay.PaymentID,
		AllocationInvoiceID: inv.InvoiceID,
		AllocationAmount:    amount,
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	inv.InvoicePaidAmount = inv.InvoicePaidAmount.Add(amount)
	inv.RecomputeStatus()
	if err := tx.Model(&billingModel.Invoice{}).
		Where("invoice_id = ?", inv.InvoiceID).
		Updates(map[string]any{
			"invoice_paid_amount": inv.InvoicePaidAmount,
			"invoice_status":      inv.InvoiceStatus,
		}).Error; err != nil {
		return err
	}

	if _, err := ledgerService.AddEntryTx(tx, ledgerService.AddEntryInput{
		StudentID:   pay.PaymentStudentID,
		Type:        ledgerModel.LedgerEntryTypePayment,
		Debit:       decimal.Zero,
		Credit:      amount,
		ReferenceID: &pay.PaymentID,
		Description: fmt.Sprintf("Payment applied to %s", inv.InvoiceNumber),
		Date:        pay.PaymentDate,
	}); err != nil {
		return err
	}

	pay.PaymentAllocatedAmount = pay.PaymentAllocatedAmount.Add(amount)
	return tx.Model(&paymentModel.Payment{}).
		Where("payment_id = ?", pay.PaymentID).
		Update("payment_allocated_amount", pay.PaymentAllocatedAmount).Error
}
