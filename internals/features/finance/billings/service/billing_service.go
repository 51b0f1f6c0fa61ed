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
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

// =======================================================
// BILLING GENERATOR
// =======================================================

type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

// BatchResult merangkum hasil satu run generate bulanan.
// Kegagalan per penghuni dikumpulkan di Errors, batch tidak pernah abort.
type BatchResult struct {
	Generated   int             `json:"generated"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Errors      []string        `json:"errors,omitempty"`
}

// InvoiceNumber membentuk nomor: INV-{year}{month:02d}-{studentCode}.
func InvoiceNumber(year, month int, studentCode string) string {
	return fmt.Sprintf("INV-%d%02d-%s", year, month, studentCode)
}

// DaysInMonth menghitung jumlah hari pada bulan target.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Prorate menghitung tarif parsial: monthly × daysCharged ÷ daysInMonth,
// dibulatkan half-up 2 desimal. Kebijakan pembulatan ini dipakai konsisten
// di seluruh penagihan parsial (konfigurasi awal maupun checkout).
func Prorate(monthly decimal.Decimal, daysInMonth, daysCharged int) decimal.Decimal {
	if daysInMonth <= 0 || daysCharged <= 0 {
		return decimal.Zero
	}
	if daysCharged >= daysInMonth {
		return monthly
	}
	return monthly.
		Mul(decimal.NewFromInt(int64(daysCharged))).
		DivRound(decimal.NewFromInt(int64(daysInMonth)), 2)
}

// GenerateMonthlyInvoices membuat invoice untuk semua penghuni aktif yang
// punya komponen biaya aktif. Idempotent: periode yang sudah ter-invoice
// dilewati. Saldo advance (Cr) otomatis termakan ke invoice baru.
func (s *BillingService) GenerateMonthlyInvoices(month, year int, dueDate *time.Time) (*BatchResult, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d di luar 1..12", helper.ErrInvalidArgument, month)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d tidak masuk akal", helper.ErrInvalidArgument, year)
	}

	due := time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
	if dueDate != nil {
		due = *dueDate
	}

	var students []studentModel.Student
	if err := s.DB.
		Where("student_status = ?", studentModel.StudentStatusActive).
		Order("student_code ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	res := &BatchResult{TotalAmount: decimal.Zero}
	for _, st := range students {
		inv, err := s.generateForStudent(st, month, year, due)
		switch {
		case errors.Is(err, errAlreadyInvoiced), errors.Is(err, errNoActiveFees):
			res.Skipped++
		case err != nil:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", st.StudentCode, err))
			log.Printf("[BILLING] ❌ %s gagal: %v", st.StudentCode, err)
		default:
			res.Generated++
			res.TotalAmount = res.TotalAmount.Add(inv.InvoiceTotal)
		}
	}

	log.Printf("[BILLING] %d-%02d: generated=%d skipped=%d failed=%d total=%s",
		year, month, res.Generated, res.Skipped, res.Failed, res.TotalAmount.StringFixed(2))
	return res, nil
}

var (
	errAlreadyInvoiced = errors.New("sudah ter-invoice untuk periode ini")
	errNoActiveFees    = errors.New("tidak ada komponen biaya aktif")
)

func (s *BillingService) generateForStudent(st studentModel.Student, month, year int, due time.Time) (*billingModel.Invoice, error) {
	var existing int64
	if err := s.DB.Model(&billingModel.Invoice{}).
		Where("invoice_student_id = ? AND invoice_year = ? AND invoice_month = ?", st.StudentID, year, month).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, errAlreadyInvoiced
	}

	var fees []studentModel.FinancialInfo
	if err := s.DB.
		Where("financial_info_student_id = ? AND financial_info_is_active = ?", st.StudentID, true).
		Order("financial_info_fee_type ASC").
		Find(&fees).Error; err != nil {
		return nil, err
	}
	if len(fees) == 0 {
		return nil, errNoActiveFees
	}

	// Satu line item per fee type (baris aktif dengan type sama dijumlah).
	perType := map[studentModel.FeeType]decimal.Decimal{}
	order := []studentModel.FeeType{}
	for _, f := range fees {
		if _, seen := perType[f.FinancialInfoFeeType]; !seen {
			order = append(order, f.FinancialInfoFeeType)
		}
		perType[f.FinancialInfoFeeType] = perType[f.FinancialInfoFeeType].Add(f.FinancialInfoAmount)
	}

	var inv *billingModel.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]billingModel.InvoiceItem, 0, len(order))
		for _, ft := range order {
			amt := perType[ft]
			total = total.Add(amt)
			items = append(items, billingModel.InvoiceItem{
				InvoiceItemDescription: ft.Label(),
				InvoiceItemFeeType:     string(ft),
				InvoiceItemAmount:      amt,
			})
		}

		inv = &billingModel.Invoice{
			InvoiceNumber:         InvoiceNumber(year, month, st.StudentCode),
			InvoiceStudentID:      st.StudentID,
			InvoiceMonth:          month,
			InvoiceYear:           year,
			InvoiceTotal:          total,
			InvoicePaidAmount:     decimal.Zero,
			InvoiceDiscountAmount: decimal.Zero,
			InvoiceStatus:         billingModel.InvoiceStatusUnpaid,
			InvoiceDueDate:        due,
		}
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceItemInvoiceID = inv.InvoiceID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// Saldo sebelum debit; negatif berarti ada advance credit.
		before, err := ledgerService.BalanceTx(tx, st.StudentID)
		if err != nil {
			return err
		}

		if _, err := ledgerService.AddEntryTx(tx, ledgerService.AddEntryInput{
			StudentID:   st.StudentID,
			Type:        ledgerModel.LedgerEntryTypeInvoice,
			Debit:       total,
			Credit:      decimal.Zero,
			ReferenceID: &inv.InvoiceID,
			Description: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		}); err != nil {
			return err
		}

		// Advance otomatis menutup invoice baru: credit-nya sudah ada di
		// ledger sejak pembayaran, cukup tercermin di paid_amount invoice.
		if before.Balance.Sign() < 0 {
			advance := before.Balance.Neg()
			applied := decimal.Min(advance, total)
			inv.InvoicePaidAmount = applied
			inv.RecomputeStatus()
			if err := tx.Model(&billingModel.Invoice{}).
				Where("invoice_id = ?", inv.InvoiceID).
				Updates(map[string]any{
					"invoice_paid_amount": inv.InvoicePaidAmount,
					"invoice_status":      inv.InvoiceStatus,
				}).Error; err != nil {
				return err
			}
		}

		inv.InvoiceItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ProratedActiveFees menjumlah komponen biaya aktif yang diprorata dari awal
// bulan `at` sampai hari `at` (dipakai Checkout Gate).
func ProratedActiveFees(tx *gorm.DB, studentID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	var fees []studentModel.FinancialInfo
	if err := tx.
		Where("financial_info_student_id = ? AND financial_info_is_active = ?", studentID, true).
		Find(&fees).Error; err != nil {
		return decimal.Zero, err
	}

	monthly := decimal.Zero
	for _, f := range fees {
		monthly = monthly.Add(f.FinancialInfoAmount)
	}
	return Prorate(monthly, DaysInMonth(at.Year(), int(at.Month())), at.Day()), nil
}

// MarkOverdue menandai invoice lewat jatuh tempo; dijalankan scheduler harian.
func (s *BillingService) MarkOverdue(now time.Time) (int64, error) {
	res := s.DB.Model(&billingModel.Invoice{}).
		Where("invoice_status IN ? AND invoice_due_date < ?",
			[]billingModel.InvoiceStatus{billingModel.InvoiceStatusUnpaid, billingModel.InvoiceStatusPartiallyPaid},
			now).
		Update("invoice_status", billingModel.InvoiceStatusOverdue)
	return res.RowsAffected, res.Error
}
