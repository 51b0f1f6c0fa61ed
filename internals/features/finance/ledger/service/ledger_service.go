package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

// =======================================================
// LEDGER ENGINE
// =======================================================
//
// Semua posting lewat AddEntryTx di dalam satu transaksi; baris student
// dikunci (FOR UPDATE) supaya dua request concurrent tidak membaca
// "saldo sebelumnya" yang sama dan menghasilkan running balance bercabang.

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

type AddEntryInput struct {
	StudentID   uuid.UUID
	Type        ledgerModel.LedgerEntryType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	ReferenceID *uuid.UUID
	Description string
	Date        time.Time // zero = now
}

// AddEntry memposting satu entry dalam transaksi sendiri.
func (s *LedgerService) AddEntry(in AddEntryInput) (*ledgerModel.LedgerEntry, error) {
	var entry *ledgerModel.LedgerEntry
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = AddEntryTx(tx, in)
		return err
	})
	return entry, err
}

// AddEntryTx memposting satu entry di dalam transaksi milik pemanggil.
func AddEntryTx(tx *gorm.DB, in AddEntryInput) (*ledgerModel.LedgerEntry, error) {
	if in.Debit.Sign() < 0 || in.Credit.Sign() < 0 {
		return nil, fmt.Errorf("%w: debit/credit tidak boleh negatif", helper.ErrInvalidArgument)
	}
	if in.Debit.IsZero() && in.Credit.IsZero() {
		return nil, fmt.Errorf("%w: debit dan credit keduanya nol", helper.ErrInvalidArgument)
	}

	if err := lockStudent(tx, in.StudentID); err != nil {
		return nil, err
	}

	prevBalance, prevSeq, err := lastBalance(tx, in.StudentID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	balance := prevBalance.Add(in.Debit).Sub(in.Credit)
	entry := ledgerModel.LedgerEntry{
		LedgerEntryStudentID:    in.StudentID,
		LedgerEntryDate:         date,
		LedgerEntrySeq:          prevSeq + 1,
		LedgerEntryType:         in.Type,
		LedgerEntryDebit:        in.Debit,
		LedgerEntryCredit:       in.Credit,
		LedgerEntryBalanceAfter: balance,
		LedgerEntryBalanceType:  ledgerModel.ClassifyBalance(balance),
		LedgerEntryReferenceID:  in.ReferenceID,
		LedgerEntryDescription:  in.Description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// lockStudent memastikan student ada dan menahan row lock selama transaksi.
// sqlite (dipakai di test) tidak mengenal FOR UPDATE; di sana penulisan
// memang sudah serial.
func lockStudent(tx *gorm.DB, studentID uuid.UUID) error {
	q := tx.Model(&studentModel.Student{})
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var st studentModel.Student
	if err := q.First(&st, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
		}
		return err
	}
	return nil
}

func lastBalance(tx *gorm.DB, studentID uuid.UUID) (decimal.Decimal, int64, error) {
	var last ledgerModel.LedgerEntry
	err := tx.
		Where("ledger_entry_student_id = ?", studentID).
		Order("ledger_entry_seq DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, 0, nil
	}
	if err != nil {
		return decimal.Zero, 0, err
	}
	return last.LedgerEntryBalanceAfter, last.LedgerEntrySeq, nil
}

// =======================================================
// QUERIES
// =======================================================

type BalanceSummary struct {
	StudentID   uuid.UUID               `json:"student_id"`
	TotalDebit  decimal.Decimal         `json:"total_debit"`
	TotalCredit decimal.Decimal         `json:"total_credit"`
	Balance     decimal.Decimal         `json:"balance"`
	BalanceType ledgerModel.BalanceType `json:"balance_type"`
	EntryCount  int64                   `json:"entry_count"`
}

// GetBalance melipat seluruh entry: balance = Σdebit − Σcredit.
func (s *LedgerService) GetBalance(studentID uuid.UUID) (*BalanceSummary, error) {
	return BalanceTx(s.DB, studentID)
}

func BalanceTx(tx *gorm.DB, studentID uuid.UUID) (*BalanceSummary, error) {
	if err := studentExists(tx, studentID); err != nil {
		return nil, err
	}

	var row struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
		EntryCount  int64
	}
	err := tx.Model(&ledgerModel.LedgerEntry{}).
		Select("COALESCE(SUM(ledger_entry_debit), 0) AS total_debit, COALESCE(SUM(ledger_entry_credit), 0) AS total_credit, COUNT(*) AS entry_count").
		Where("ledger_entry_student_id = ?", studentID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	balance := row.TotalDebit.Sub(row.TotalCredit)
	return &BalanceSummary{
		StudentID:   studentID,
		TotalDebit:  row.TotalDebit,
		TotalCredit: row.TotalCredit,
		Balance:     balance,
		BalanceType: ledgerModel.ClassifyBalance(balance),
		EntryCount:  row.EntryCount,
	}, nil
}

// GetEntries mengembalikan statement berurut (date, seq) untuk display.
func (s *LedgerService) GetEntries(studentID uuid.UUID, offset, limit int) ([]ledgerModel.LedgerEntry, int64, error) {
	if err := studentExists(s.DB, studentID); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.DB.Model(&ledgerModel.LedgerEntry{}).
		Where("ledger_entry_student_id = ?", studentID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []ledgerModel.LedgerEntry
	err := s.DB.
		Where("ledger_entry_student_id = ?", studentID).
		Order("ledger_entry_date ASC, ledger_entry_seq ASC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func studentExists(tx *gorm.DB, studentID uuid.UUID) error {
	var n int64
	if err := tx.Model(&studentModel.Student{}).
		Where("student_id = ?", studentID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
	}
	return nil
}
