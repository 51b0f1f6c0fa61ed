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
	ledgerService "hostelku_backend/internals/features/finance/ledger/service"
	paymentModel "hostelku_backend/internals/features/finance/payments/model"
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

func newBilledStudent(t *testing.T, db *gorm.DB, code string, fees map[studentModel.FeeType]string, month, year int) *studentModel.Student {
	t.Helper()
	st := &studentModel.Student{
		StudentCode:       code,
		StudentName:       "Penghuni " + code,
		StudentEnrolledAt: time.Now(),
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(st).Error)
	for ft, amt := range fees {
		require.NoError(t, db.Create(&studentModel.FinancialInfo{
			FinancialInfoStudentID:     st.StudentID,
			FinancialInfoFeeType:       ft,
			FinancialInfoAmount:        dec(amt),
			FinancialInfoIsActive:      true,
			FinancialInfoEffectiveFrom: time.Now(),
		}).Error)
	}
	res, err := billingService.NewBillingService(db).GenerateMonthlyInvoices(month, year, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Generated)
	return st
}

func invoiceOf(t *testing.T, db *gorm.DB, studentID uuid.UUID, month, year int) *billingModel.Invoice {
	t.Helper()
	var inv billingModel.Invoice
	require.NoError(t, db.First(&inv,
		"invoice_student_id = ? AND invoice_month = ? AND invoice_year = ?",
		studentID, month, year).Error)
	return &inv
}

func TestRecordPayment_FullSettlement(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
		studentModel.FeeTypeLaundry:     "500.00",
	}, 7, 2024)
	svc := NewPaymentService(db)

	pay, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("8500.00"),
		Method:    paymentModel.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, paymentModel.PaymentStatusCompleted, pay.PaymentStatus)
	require.True(t, pay.PaymentAllocatedAmount.Equal(dec("8500.00")))
	require.True(t, pay.PaymentAdvanceAmount.IsZero())

	inv := invoiceOf(t, db, st.StudentID, 7, 2024)
	require.Equal(t, billingModel.InvoiceStatusPaid, inv.InvoiceStatus)
	require.True(t, inv.Outstanding().IsZero())

	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.Balance.IsZero())
}

func TestRecordPayment_PartialSettlement(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "6200.00",
	}, 7, 2024)
	svc := NewPaymentService(db)

	_, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("3000.00"),
		Method:    paymentModel.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	inv := invoiceOf(t, db, st.StudentID, 7, 2024)
	require.Equal(t, billingModel.InvoiceStatusPartiallyPaid, inv.InvoiceStatus)
	require.True(t, inv.Outstanding().Equal(dec("3200.00")))

	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.Balance.Equal(dec("3200.00")))
}

func TestAutoAllocate_OldestFirst(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 6, 2024)
	res, err := billingService.NewBillingService(db).GenerateMonthlyInvoices(7, 2024, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Generated)

	svc := NewPaymentService(db)
	_, err = svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("10000.00"),
		Method:    paymentModel.PaymentMethodCash,
	})
	require.NoError(t, err)

	juni := invoiceOf(t, db, st.StudentID, 6, 2024)
	juli := invoiceOf(t, db, st.StudentID, 7, 2024)
	require.Equal(t, billingModel.InvoiceStatusPaid, juni.InvoiceStatus)
	require.Equal(t, billingModel.InvoiceStatusPartiallyPaid, juli.InvoiceStatus)
	require.True(t, juli.InvoicePaidAmount.Equal(dec("2000.00")))
}

func TestAutoAllocate_ExcessBecomesAdvance(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 7, 2024)
	svc := NewPaymentService(db)

	pay, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("9000.00"),
		Method:    paymentModel.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.True(t, pay.PaymentAllocatedAmount.Equal(dec("8000.00")))
	require.True(t, pay.PaymentAdvanceAmount.Equal(dec("1000.00")))
	require.True(t, pay.Unallocated().IsZero())

	// Saldo Cr 1000 (advance)
	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.Balance.Equal(dec("-1000.00")))
}

func TestAllocate_ExplicitRules(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 7, 2024)
	inv := invoiceOf(t, db, st.StudentID, 7, 2024)
	svc := NewPaymentService(db)

	pay, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("5000.00"),
		Method:    paymentModel.PaymentMethodCash,
		Allocations: []AllocationInput{
			{InvoiceID: inv.InvoiceID, Amount: dec("3000.00")},
		},
	})
	require.NoError(t, err)
	require.True(t, pay.PaymentAllocatedAmount.Equal(dec("3000.00")))
	require.True(t, pay.Unallocated().Equal(dec("2000.00")))

	// Melebihi sisa unallocated → ditolak
	_, err = svc.Allocate(pay.PaymentID, []AllocationInput{
		{InvoiceID: inv.InvoiceID, Amount: dec("2500.00")},
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	// Melebihi outstanding invoice → ditolak
	_, err = svc.Allocate(pay.PaymentID, []AllocationInput{
		{InvoiceID: inv.InvoiceID, Amount: dec("6000.00")},
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	// Sisa sah dialokasikan
	_, err = svc.Allocate(pay.PaymentID, []AllocationInput{
		{InvoiceID: inv.InvoiceID, Amount: dec("2000.00")},
	})
	require.NoError(t, err)

	inv = invoiceOf(t, db, st.StudentID, 7, 2024)
	require.True(t, inv.InvoicePaidAmount.Equal(dec("5000.00")))
}

func TestAllocate_WrongStudentInvoice(t *testing.T) {
	db := newTestDB(t)
	st1 := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 7, 2024)
	st2 := &studentModel.Student{
		StudentCode:       "STU002",
		StudentName:       "Penghuni STU002",
		StudentEnrolledAt: time.Now(),
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(st2).Error)

	invOfFirst := invoiceOf(t, db, st1.StudentID, 7, 2024)
	svc := NewPaymentService(db)

	_, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st2.StudentID,
		Amount:    dec("1000.00"),
		Method:    paymentModel.PaymentMethodCash,
		Allocations: []AllocationInput{
			{InvoiceID: invOfFirst.InvoiceID, Amount: dec("1000.00")},
		},
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestRecordPayment_Validation(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 7, 2024)
	svc := NewPaymentService(db)

	_, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("0"),
		Method:    paymentModel.PaymentMethodCash,
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("100.00"),
		Method:    "crypto",
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	// Method online hanya lewat gateway
	_, err = svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("100.00"),
		Method:    paymentModel.PaymentMethodOnline,
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestLedgerCreditsMatchPaymentAmount(t *testing.T) {
	db := newTestDB(t)
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "8000.00",
	}, 7, 2024)
	svc := NewPaymentService(db)

	_, err := svc.RecordPayment(RecordPaymentInput{
		StudentID: st.StudentID,
		Amount:    dec("9500.00"),
		Method:    paymentModel.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Σ credit ledger = amount pembayaran (alokasi + advance)
	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.TotalCredit.Equal(dec("9500.00")))
}
