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
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
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

func newBed(t *testing.T, db *gorm.DB, roomNumber, label string) *roomModel.Bed {
	t.Helper()
	room := &roomModel.Room{
		RoomNumber:      roomNumber,
		RoomCapacity:    2,
		RoomMonthlyRate: dec("8000.00"),
	}
	require.NoError(t, db.Create(room).Error)
	bed := &roomModel.Bed{
		BedRoomID: room.RoomID,
		BedLabel:  label,
		BedStatus: roomModel.BedStatusAvailable,
	}
	require.NoError(t, db.Create(bed).Error)
	return bed
}

func TestNextStudentCode_Sequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	s1, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", EnrolledAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, "STU001", s1.StudentCode)

	s2, err := svc.Create(CreateStudentInput{Name: "Sita Thapa", EnrolledAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, "STU002", s2.StudentCode)
}

func TestNextStudentCode_CountsSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	s1, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", EnrolledAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(s1.StudentID))

	// Kode STU001 tidak boleh terpakai ulang
	s2, err := svc.Create(CreateStudentInput{Name: "Sita Thapa", EnrolledAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, "STU002", s2.StudentCode)
}

func TestCreate_WithBedAndFees(t *testing.T) {
	db := newTestDB(t)
	bed := newBed(t, db, "A-101", "A")
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		BedID:      &bed.BedID,
		EnrolledAt: time.Now(),
		Fees: []FeeComponentInput{
			{FeeType: studentModel.FeeTypeBaseMonthly, Amount: dec("8000.00")},
			{FeeType: studentModel.FeeTypeLaundry, Amount: dec("500.00")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, st.StudentBedID)
	require.Equal(t, bed.BedID, *st.StudentBedID)

	var gotBed roomModel.Bed
	require.NoError(t, db.First(&gotBed, "bed_id = ?", bed.BedID).Error)
	require.Equal(t, roomModel.BedStatusOccupied, gotBed.BedStatus)

	var fees int64
	require.NoError(t, db.Model(&studentModel.FinancialInfo{}).
		Where("financial_info_student_id = ?", st.StudentID).
		Count(&fees).Error)
	require.EqualValues(t, 2, fees)
}

func TestCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	_, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		EnrolledAt: time.Now(),
		Fees:       []FeeComponentInput{{FeeType: "parkir", Amount: dec("100.00")}},
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		EnrolledAt: time.Now(),
		Fees:       []FeeComponentInput{{FeeType: studentModel.FeeTypeLaundry, Amount: decimal.Zero}},
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestCreate_BedMustBeAvailable(t *testing.T) {
	db := newTestDB(t)
	bed := newBed(t, db, "A-101", "A")
	require.NoError(t, db.Model(bed).Update("bed_status", roomModel.BedStatusMaintenance).Error)
	svc := NewStudentService(db)

	_, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		BedID:      &bed.BedID,
		EnrolledAt: time.Now(),
	})
	require.ErrorIs(t, err, helper.ErrInvalidTransition)

	// Transaksi di-rollback: penghuni tidak ikut tersimpan
	var n int64
	require.NoError(t, db.Model(&studentModel.Student{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}

func TestAssignBed_TransferFreesOldBed(t *testing.T) {
	db := newTestDB(t)
	bedA := newBed(t, db, "A-101", "A")
	bedB := newBed(t, db, "A-102", "A")
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		BedID:      &bedA.BedID,
		EnrolledAt: time.Now(),
	})
	require.NoError(t, err)

	got, err := svc.AssignBed(st.StudentID, bedB.BedID)
	require.NoError(t, err)
	require.Equal(t, bedB.BedID, *got.StudentBedID)

	var a, b roomModel.Bed
	require.NoError(t, db.First(&a, "bed_id = ?", bedA.BedID).Error)
	require.NoError(t, db.First(&b, "bed_id = ?", bedB.BedID).Error)
	require.Equal(t, roomModel.BedStatusAvailable, a.BedStatus)
	require.Equal(t, roomModel.BedStatusOccupied, b.BedStatus)
}

func TestAssignBed_SameBedIdempotent(t *testing.T) {
	db := newTestDB(t)
	bed := newBed(t, db, "A-101", "A")
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		BedID:      &bed.BedID,
		EnrolledAt: time.Now(),
	})
	require.NoError(t, err)

	got, err := svc.AssignBed(st.StudentID, bed.BedID)
	require.NoError(t, err)
	require.Equal(t, bed.BedID, *got.StudentBedID)
}

func TestAssignBed_OccupiedRejected(t *testing.T) {
	db := newTestDB(t)
	bedA := newBed(t, db, "A-101", "A")
	bedB := newBed(t, db, "A-102", "A")
	svc := NewStudentService(db)

	_, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", BedID: &bedA.BedID, EnrolledAt: time.Now()})
	require.NoError(t, err)
	other, err := svc.Create(CreateStudentInput{Name: "Sita Thapa", BedID: &bedB.BedID, EnrolledAt: time.Now()})
	require.NoError(t, err)

	_, err = svc.AssignBed(other.StudentID, bedA.BedID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestDelete_BlockedByLedgerHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", EnrolledAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, db.Create(&ledgerModel.LedgerEntry{
		LedgerEntryStudentID:    st.StudentID,
		LedgerEntrySeq:          1,
		LedgerEntryType:         ledgerModel.LedgerEntryTypeInvoice,
		LedgerEntryDebit:        dec("8000.00"),
		LedgerEntryCredit:       decimal.Zero,
		LedgerEntryBalanceAfter: dec("8000.00"),
		LedgerEntryBalanceType:  ledgerModel.BalanceTypeDr,
		LedgerEntryDescription:  "Invoice Juli 2024",
	}).Error)

	err = svc.Delete(st.StudentID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestDelete_FreesBed(t *testing.T) {
	db := newTestDB(t)
	bed := newBed(t, db, "A-101", "A")
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", BedID: &bed.BedID, EnrolledAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(st.StudentID))

	var gotBed roomModel.Bed
	require.NoError(t, db.First(&gotBed, "bed_id = ?", bed.BedID).Error)
	require.Equal(t, roomModel.BedStatusAvailable, gotBed.BedStatus)

	// Soft delete: hilang dari query biasa, masih ada secara unscoped
	var n int64
	require.NoError(t, db.Model(&studentModel.Student{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
	require.NoError(t, db.Unscoped().Model(&studentModel.Student{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestDeactivateFeeComponent(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{
		Name:       "Rahul Sharma",
		EnrolledAt: time.Now(),
		Fees:       []FeeComponentInput{{FeeType: studentModel.FeeTypeLaundry, Amount: dec("500.00")}},
	})
	require.NoError(t, err)

	var fi studentModel.FinancialInfo
	require.NoError(t, db.First(&fi, "financial_info_student_id = ?", st.StudentID).Error)

	got, err := svc.DeactivateFeeComponent(fi.FinancialInfoID)
	require.NoError(t, err)
	require.False(t, got.FinancialInfoIsActive)

	// Nonaktif dua kali ditolak
	_, err = svc.DeactivateFeeComponent(fi.FinancialInfoID)
	require.ErrorIs(t, err, helper.ErrInvalidTransition)
}

func TestAddFeeComponent_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewStudentService(db)

	st, err := svc.Create(CreateStudentInput{Name: "Rahul Sharma", EnrolledAt: time.Now()})
	require.NoError(t, err)

	_, err = svc.AddFeeComponent(st.StudentID, "parkir", dec("100.00"), time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.AddFeeComponent(st.StudentID, studentModel.FeeTypeFood, dec("-1.00"), time.Now())
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.AddFeeComponent(uuid.New(), studentModel.FeeTypeFood, dec("3000.00"), time.Now())
	require.ErrorIs(t, err, helper.ErrNotFound)

	fi, err := svc.AddFeeComponent(st.StudentID, studentModel.FeeTypeFood, dec("3000.00"), time.Now())
	require.NoError(t, err)
	require.True(t, fi.FinancialInfoIsActive)
}
