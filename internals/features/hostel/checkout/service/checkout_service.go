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
	billingService "hostelku_backend/internals/features/finance/billings/service"
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	checkoutModel "hostelku_backend/internals/features/hostel/checkout/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

// =======================================================
// CHECKOUT GATE
// =======================================================
//
// Outstanding = saldo ledger (Dr) + biaya bulan berjalan yang diprorata
// sampai tanggal checkout (hanya bila periode itu belum ter-invoice).
// Outstanding > 0 tanpa override → checkout ditolak. Dengan override,
// penghuni masuk daftar checked-out-with-dues untuk penagihan lanjutan.

type CheckoutService struct {
	DB *gorm.DB
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{DB: db}
}

type CheckoutPreview struct {
	Allowed         bool            `json:"allowed"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	LedgerBalance   decimal.Decimal `json:"ledger_balance"`
	ProratedCurrent decimal.Decimal `json:"prorated_current"`
}

// CanCheckout menghitung outstanding tanpa mengubah apa pun.
func (s *CheckoutService) CanCheckout(studentID uuid.UUID, at time.Time) (*CheckoutPreview, error) {
	if at.IsZero() {
		at = time.Now()
	}
	return s.preview(s.DB, studentID, at)
}

func (s *CheckoutService) preview(tx *gorm.DB, studentID uuid.UUID, at time.Time) (*CheckoutPreview, error) {
	var st studentModel.Student
	if err := tx.First(&st, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
		}
		return nil, err
	}
	if st.StudentStatus == studentModel.StudentStatusInactive {
		return nil, fmt.Errorf("%w: penghuni sudah checkout", helper.ErrInvalidTransition)
	}

	bal, err := ledgerService.BalanceTx(tx, studentID)
	if err != nil {
		return nil, err
	}

	// Biaya berjalan hanya dihitung bila bulan `at` belum ter-invoice.
	prorated := decimal.Zero
	var invoiced int64
	if err := tx.Model(&billingModel.Invoice{}).
		Where("invoice_student_id = ? AND invoice_year = ? AND invoice_month = ?",
			studentID, at.Year(), int(at.Month())).
		Count(&invoiced).Error; err != nil {
		return nil, err
	}
	if invoiced == 0 {
		prorated, err = billingService.ProratedActiveFees(tx, studentID, at)
		if err != nil {
			return nil, err
		}
	}

	outstanding := bal.Balance.Add(prorated)
	if outstanding.Sign() < 0 {
		outstanding = decimal.Zero
	}
	return &CheckoutPreview{
		Allowed:         outstanding.Sign() <= 0,
		Outstanding:     outstanding,
		LedgerBalance:   bal.Balance,
		ProratedCurrent: prorated,
	}, nil
}

type CheckoutResult struct {
	Preview    *CheckoutPreview              `json:"preview"`
	Student    *studentModel.Student         `json:"student"`
	DuesRecord *checkoutModel.CheckoutRecord `json:"dues_record,omitempty"`
}

// Checkout mengeksekusi gate: tanpa override dan outstanding > 0 → tolak.
// Dengan override, penghuni ditandai pending_dues + tercatat di daftar
// checked-out-with-dues; bed dibebaskan, status berhenti menghuni.
func (s *CheckoutService) Checkout(studentID uuid.UUID, at time.Time, override bool, note *string) (*CheckoutResult, error) {
	if at.IsZero() {
		at = time.Now()
	}

	var result CheckoutResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		pv, err := s.preview(tx, studentID, at)
		if err != nil {
			return err
		}
		result.Preview = pv

		if !pv.Allowed && !override {
			return fmt.Errorf("%w: outstanding %s, checkout butuh pelunasan atau override",
				helper.ErrInvalidTransition, pv.Outstanding.StringFixed(2))
		}

		var st studentModel.Student
		if err := tx.First(&st, "student_id = ?", studentID).Error; err != nil {
			return err
		}

		// Bebaskan bed
		if st.StudentBedID != nil {
			if err := tx.Model(&roomModel.Bed{}).
				Where("bed_id = ?", *st.StudentBedID).
				Update("bed_status", roomModel.BedStatusAvailable).Error; err != nil {
				return err
			}
		}

		newStatus := studentModel.StudentStatusInactive
		if !pv.Allowed && override {
			newStatus = studentModel.StudentStatusPendingDues
			rec := checkoutModel.CheckoutRecord{
				CheckoutRecordStudentID:   studentID,
				CheckoutRecordDate:        at,
				CheckoutRecordOutstanding: pv.Outstanding,
				CheckoutRecordNote:        note,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			result.DuesRecord = &rec
			log.Printf("[CHECKOUT] ⚠️ %s keluar dengan tunggakan %s", st.StudentCode, pv.Outstanding.StringFixed(2))
		}

		st.StudentStatus = newStatus
		st.StudentBedID = nil
		if err := tx.Model(&studentModel.Student{}).
			Where("student_id = ?", studentID).
			Updates(map[string]any{
				"student_status": newStatus,
				"student_bed_id": nil,
			}).Error; err != nil {
			return err
		}
		result.Student = &st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWithDues mengembalikan daftar checkout bertunggakan yang belum lunas.
func (s *CheckoutService) ListWithDues(offset, limit int) ([]checkoutModel.CheckoutRecord, int64, error) {
	var total int64
	if err := s.DB.Model(&checkoutModel.CheckoutRecord{}).
		Where("checkout_record_cleared = ?", false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []checkoutModel.CheckoutRecord
	err := s.DB.
		Where("checkout_record_cleared = ?", false).
		Order("checkout_record_date DESC").
		Offset(offset).Limit(limit).
		Find(&recs).Error
	return recs, total, err
}

// ClearDues menandai tunggakan checkout sudah tertagih; status penghuni
// turun ke inactive penuh.
func (s *CheckoutService) ClearDues(recordID uuid.UUID) (*checkoutModel.CheckoutRecord, error) {
	var rec checkoutModel.CheckoutRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "checkout_record_id = ?", recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: checkout record %s", helper.ErrNotFound, recordID)
			}
			return err
		}
		if rec.CheckoutRecordCleared {
			return fmt.Errorf("%w: sudah ditandai lunas", helper.ErrInvalidTransition)
		}

		now := time.Now()
		rec.CheckoutRecordCleared = true
		rec.CheckoutRecordClearedAt = &now
		if err := tx.Model(&checkoutModel.CheckoutRecord{}).
			Where("checkout_record_id = ?", rec.CheckoutRecordID).
			Updates(map[string]any{
				"checkout_record_cleared":    true,
				"checkout_record_cleared_at": now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&studentModel.Student{}).
			Where("student_id = ? AND student_status = ?", rec.CheckoutRecordStudentID, studentModel.StudentStatusPendingDues).
			Update("student_status", studentModel.StudentStatusInactive).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
