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
	chargeModel "hostelku_backend/internals/features/finance/admincharges/model"
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

func newTestStudent(t *testing.T, db *gorm.DB) *studentModel.Student {
	t.Helper()
	st := &studentModel.Student{
		StudentCode:       "STU001",
		StudentName:       "Penghuni STU001",
		StudentEnrolledAt: time.Now(),
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(st).Error)
	return st
}

func TestCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	st := newTestStudent(t, db)
	svc := NewAdminChargeService(db)

	_, err := svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("0"),
		Months:    1,
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("100.00"),
		Months:    0,
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("100.00"),
		Months:    13,
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestApply_PostsAmountTimesMonths(t *testing.T) {
	db := newTestDB(t)
	st := newTestStudent(t, db)
	svc := NewAdminChargeService(db)

	charge, err := svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Biaya perawatan",
		Amount:    dec("250.00"),
		Months:    4,
	})
	require.NoError(t, err)
	require.Equal(t, chargeModel.AdminChargeStatusPending, charge.AdminChargeStatus)
	require.True(t, charge.TotalAmount().Equal(dec("1000.00")))

	applied, err := svc.Apply(charge.AdminChargeID)
	require.NoError(t, err)
	require.Equal(t, chargeModel.AdminChargeStatusApplied, applied.AdminChargeStatus)
	require.NotNil(t, applied.AdminChargeAppliedAt)

	// Satu debit ledger sebesar amount × months
	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.True(t, bal.Balance.Equal(dec("1000.00")))
	require.EqualValues(t, 1, bal.EntryCount)
}

func TestApply_OnlyPending(t *testing.T) {
	db := newTestDB(t)
	st := newTestStudent(t, db)
	svc := NewAdminChargeService(db)

	charge, err := svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("100.00"),
		Months:    1,
	})
	require.NoError(t, err)

	_, err = svc.Apply(charge.AdminChargeID)
	require.NoError(t, err)

	// Applied → tidak bisa apply lagi (tidak dobel posting)
	_, err = svc.Apply(charge.AdminChargeID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)

	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.EqualValues(t, 1, bal.EntryCount)
}

func TestCancel_OnlyPending(t *testing.T) {
	db := newTestDB(t)
	st := newTestStudent(t, db)
	svc := NewAdminChargeService(db)

	charge, err := svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("100.00"),
		Months:    1,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(charge.AdminChargeID)
	require.NoError(t, err)
	require.Equal(t, chargeModel.AdminChargeStatusCancelled, cancelled.AdminChargeStatus)

	// Cancelled tidak menyentuh ledger
	bal, err := ledgerService.BalanceTx(db, st.StudentID)
	require.NoError(t, err)
	require.EqualValues(t, 0, bal.EntryCount)

	// Cancelled → apply ditolak
	_, err = svc.Apply(charge.AdminChargeID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)

	// Cancel dua kali juga ditolak
	_, err = svc.Cancel(charge.AdminChargeID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestUpdate_PendingOnly(t *testing.T) {
	db := newTestDB(t)
	st := newTestStudent(t, db)
	svc := NewAdminChargeService(db)

	charge, err := svc.Create(CreateChargeInput{
		StudentID: st.StudentID,
		Title:     "Denda",
		Amount:    dec("100.00"),
		Months:    1,
	})
	require.NoError(t, err)

	newAmount := dec("150.00")
	months := 2
	updated, err := svc.Update(charge.AdminChargeID, nil, &newAmount, &months, nil)
	require.NoError(t, err)
	require.True(t, updated.AdminChargeAmount.Equal(newAmount))
	require.Equal(t, 2, updated.AdminChargeMonths)

	// Months di luar 1..12 ditolak
	bad := 13
	_, err = svc.Update(charge.AdminChargeID, nil, nil, &bad, nil)
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	// Setelah applied, immutable
	_, err = svc.Apply(charge.AdminChargeID)
	require.NoError(t, err)
	_, err = svc.Update(charge.AdminChargeID, nil, &newAmount, nil, nil)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}
