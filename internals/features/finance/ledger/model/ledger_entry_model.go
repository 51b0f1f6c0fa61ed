package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — jenis & klasifikasi saldo
// =========================================================

type LedgerEntryType string

const (
	LedgerEntryTypeInvoice     LedgerEntryType = "invoice"      // debit: tagihan bulanan
	LedgerEntryTypePayment     LedgerEntryType = "payment"      // credit: pembayaran
	LedgerEntryTypeDiscount    LedgerEntryType = "discount"     // credit: potongan
	LedgerEntryTypeAdminCharge LedgerEntryType = "admin_charge" // debit: biaya ad-hoc
	LedgerEntryTypeAdjustment  LedgerEntryType = "adjustment"   // koreksi manual (offsetting)
)

type BalanceType string

const (
	BalanceTypeDr  BalanceType = "Dr"  // saldo > 0: penghuni berutang
	BalanceTypeCr  BalanceType = "Cr"  // saldo < 0: kelebihan bayar (advance)
	BalanceTypeNil BalanceType = "Nil" // saldo == 0
)

// ClassifyBalance memetakan saldo ke Dr/Cr/Nil.
func ClassifyBalance(balance decimal.Decimal) BalanceType {
	switch balance.Sign() {
	case 1:
		return BalanceTypeDr
	case -1:
		return BalanceTypeCr
	default:
		return BalanceTypeNil
	}
}

// =========================================================
// MODEL ledger_entries — append-only, tidak pernah di-update
// =========================================================
//
// Invariant: untuk satu penghuni, urutan (date, seq) menentukan running
// balance; balance_after = saldo sebelumnya + debit − credit. Koreksi
// diposting sebagai entry offsetting baru, bukan mutasi.

type LedgerEntry struct {
	LedgerEntryID uuid.UUID `gorm:"column:ledger_entry_id;type:uuid;primaryKey" json:"ledger_entry_id"`

	// FK → students
	LedgerEntryStudentID uuid.UUID `gorm:"column:ledger_entry_student_id;type:uuid;not null;index:ix_ledger_student_seq,priority:1" json:"ledger_entry_student_id"`

	LedgerEntryDate time.Time `gorm:"column:ledger_entry_date;not null" json:"ledger_entry_date"`
	// Nomor urut per penghuni; tie-breaker saat tanggal sama
	LedgerEntrySeq int64 `gorm:"column:ledger_entry_seq;not null;index:ix_ledger_student_seq,priority:2" json:"ledger_entry_seq"`

	LedgerEntryType LedgerEntryType `gorm:"column:ledger_entry_type;type:varchar(20);not null" json:"ledger_entry_type"`

	LedgerEntryDebit  decimal.Decimal `gorm:"column:ledger_entry_debit;type:numeric(14,2);not null" json:"ledger_entry_debit"`
	LedgerEntryCredit decimal.Decimal `gorm:"column:ledger_entry_credit;type:numeric(14,2);not null" json:"ledger_entry_credit"`

	LedgerEntryBalanceAfter decimal.Decimal `gorm:"column:ledger_entry_balance_after;type:numeric(14,2);not null" json:"ledger_entry_balance_after"`
	LedgerEntryBalanceType  BalanceType     `gorm:"column:ledger_entry_balance_type;type:varchar(3);not null" json:"ledger_entry_balance_type"`

	// Referensi sumber (invoice/payment/discount/admin charge id)
	LedgerEntryReferenceID *uuid.UUID `gorm:"column:ledger_entry_reference_id;type:uuid;index" json:"ledger_entry_reference_id,omitempty"`
	LedgerEntryDescription string     `gorm:"column:ledger_entry_description;type:text;not null" json:"ledger_entry_description"`

	LedgerEntryCreatedAt time.Time `gorm:"column:ledger_entry_created_at;not null;autoCreateTime" json:"ledger_entry_created_at"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

func (m *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if m.LedgerEntryID == uuid.Nil {
		m.LedgerEntryID = uuid.New()
	}
	if m.LedgerEntryDate.IsZero() {
		m.LedgerEntryDate = time.Now()
	}
	return nil
}
