package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "hostelku_backend/internals/databases"
	billingModel "hostelku_backend/internals/features/finance/billings/model"
	billingService "hostelku_backend/internals/features/finance/billings/service"
	discountModel "hostelku_backend/internals/features/finance/discounts/model"
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateAll(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newBilledStudent(t *testing.T, db *gorm.DB) (*studentModel.Student, *billingModel.Invoice) {
	t.Helper()
	st := &studentModel.Student{
		StudentCode:       "STU001",
		StudentName:       "Penghuni STU001",
		StudentEnrolledAt: time.Now(),
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(st).Error)
	require.NoError(t, db.Create(&studentModel.FinancialInfo{
		FinancialInfoStudentID:     st.StudentID,
		FinancialInfoFeeType:       studentModel.FeeTypeBaseMonthly,
		FinancialInfoAmount:        dec("8000.00"),
		FinancialInfoIsActive:      true,
		FinancialInfoEffectiveFrom: time.Now(),
	}).Error)

	res, err := billingService.NewBillingService(db).GenerateMonthlyInvoices(7, 2024, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Generated)

	var inv billingModel.Invoice
	require.NoError(t, db.First(&inv, "invoice_student_id = ?", st.StudentID).Error)
	return st, &inv
}

func newDiscount(t *testing.T, db *gorm.DB, studentID uuid.UUID, kind discountModel.DiscountKind, value string, invoiceID *uuid.UUID) *discountModel.Discount {
	t.Helper()
	d := &discountModel.Discount{
		DiscountStudentID:  studentID,
		DiscountKind:       kind,
		DiscountValue:      dec(value),
		DiscountInvoiceID:  invoiceID,
		DiscountValidFrom:  time.Now().AddDate(0, 0, -1),
		DiscountValidUntil: time.Now().AddDate(0, 1, 0),
		DiscountStatus:     discountModel.DiscountStatusActive,
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

func TestApply_AmountDiscountOnInvoice(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindAmount, "500.00", &inv.InvoiceID)

	svc := NewDiscountService(db)
	applied, err := svc.Apply(d.DiscountID, time.Now())
	require.NoError(t, err)
	require.Equal(t, discountModel.DiscountStatusApplied, applied.DiscountStatus)
	require.NotNil(t, applied.DiscountAppliedAmount)
	require.True(t, applied.DiscountAppliedAmount.Equal(dec("500.00")))

	var got billingModel.Invoice
	require.NoError(t, db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	require.True(t, got.InvoiceDiscountAmount.Equal(dec("500.00")))
	require.True(t, got.Outstanding().Equal(dec("7500.00")))

	// Credit ledger sebesar diskon
	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.Balance.Equal(dec("7500.00")))
}

func TestApply_PercentDiscount(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	// 12.5% dari 8000 = 1000.00
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindPercent, "12.5", &inv.InvoiceID)

	svc := NewDiscountService(db)
	applied, err := svc.Apply(d.DiscountID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, applied.DiscountAppliedAmount)
	require.True(t, applied.DiscountAppliedAmount.Equal(dec("1000.00")))
}

func TestApply_PercentNeedsInvoice(t *testing.T) {
	db := newTestDB(t)
	st, _ := newBilledStudent(t, db)
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindPercent, "10", nil)

	svc := NewDiscountService(db)
	_, err := svc.Apply(d.DiscountID, time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestApply_RejectsAboveOutstanding(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindAmount, "9000.00", &inv.InvoiceID)

	svc := NewDiscountService(db)
	_, err := svc.Apply(d.DiscountID, time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestApply_OutsideWindow(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := &discountModel.Discount{
		DiscountStudentID:  st.StudentID,
		DiscountKind:       discountModel.DiscountKindAmount,
		DiscountValue:      dec("500.00"),
		DiscountInvoiceID:  &inv.InvoiceID,
		DiscountValidFrom:  time.Now().AddDate(0, -2, 0),
		DiscountValidUntil: time.Now().AddDate(0, -1, 0),
		DiscountStatus:     discountModel.DiscountStatusActive,
	}
	require.NoError(t, db.Create(d).Error)

	svc := NewDiscountService(db)
	_, err := svc.Apply(d.DiscountID, time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestApply_OnlyOnce(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindAmount, "500.00", &inv.InvoiceID)

	svc := NewDiscountService(db)
	_, err := svc.Apply(d.DiscountID, time.Now())
	require.NoError(t, err)
	_, err = svc.Apply(d.DiscountID, time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := newDiscount(t, db, st.StudentID, discountModel.DiscountKindAmount, "500.00", &inv.InvoiceID)

	svc := NewDiscountService(db)
	got, err := svc.Cancel(d.DiscountID)
	require.NoError(t, err)
	require.Equal(t, discountModel.DiscountStatusCancelled, got.DiscountStatus)

	// Sudah cancelled → tidak bisa di-apply
	_, err = svc.Apply(d.DiscountID, time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestExpireStale(t *testing.T) {
	db := newTestDB(t)
	st, inv := newBilledStudent(t, db)
	d := &discountModel.Discount{
		DiscountStudentID:  st.StudentID,
		DiscountKind:       discountModel.DiscountKindAmount,
		DiscountValue:      dec("500.00"),
		DiscountInvoiceID:  &inv.InvoiceID,
		DiscountValidFrom:  time.Now().AddDate(0, -2, 0),
		DiscountValidUntil: time.Now().AddDate(0, 0, -1),
		DiscountStatus:     discountModel.DiscountStatusActive,
	}
	require.NoError(t, db.Create(d).Error)

	n, err := NewDiscountService(db).ExpireStale(time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
