package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

type StudentService struct {
	DB *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db}
}

// =======================================================
// KODE PENGHUNI
// =======================================================

// NextStudentCode membangkitkan kode berurutan: STU001, STU002, ...
// Soft-deleted ikut dihitung supaya kode tidak terpakai ulang.
func NextStudentCode(tx *gorm.DB) (string, error) {
	var last string
	err := tx.Unscoped().Model(&studentModel.Student{}).
		Select("student_code").
		Where("student_code LIKE ?", "STU%").
		Order("student_code DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	n := 0
	if last != "" {
		if parsed, perr := strconv.Atoi(strings.TrimPrefix(last, "STU")); perr == nil {
			n = parsed
		}
	}
	return fmt.Sprintf("STU%03d", n+1), nil
}

// =======================================================
// CRUD PENGHUNI
// =======================================================

type FeeComponentInput struct {
	FeeType studentModel.FeeType
	Amount  decimal.Decimal
}

type CreateStudentInput struct {
	Name       string
	Phone      *string
	Email      *string
	Guardian   datatypes.JSONMap
	BedID      *uuid.UUID
	EnrolledAt time.Time
	Fees       []FeeComponentInput
}

func (s *StudentService) Create(in CreateStudentInput) (*studentModel.Student, error) {
	for _, f := range in.Fees {
		if !f.FeeType.Valid() {
			return nil, fmt.Errorf("%w: fee_type %q tidak dikenal", helper.ErrInvalidArgument, f.FeeType)
		}
		if f.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("%w: amount komponen %s harus > 0", helper.ErrInvalidArgument, f.FeeType)
		}
	}

	var st studentModel.Student
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		code, err := NextStudentCode(tx)
		if err != nil {
			return err
		}

		st = studentModel.Student{
			StudentCode:       code,
			StudentName:       in.Name,
			StudentPhone:      in.Phone,
			StudentEmail:      in.Email,
			StudentGuardian:   in.Guardian,
			StudentEnrolledAt: in.EnrolledAt,
			StudentStatus:     studentModel.StudentStatusActive,
		}
		if err := tx.Create(&st).Error; err != nil {
			return err
		}

		if in.BedID != nil {
			if err := occupyBed(tx, &st, *in.BedID); err != nil {
				return err
			}
		}

		for _, f := range in.Fees {
			fi := studentModel.FinancialInfo{
				FinancialInfoStudentID:     st.StudentID,
				FinancialInfoFeeType:       f.FeeType,
				FinancialInfoAmount:        f.Amount,
				FinancialInfoIsActive:      true,
				FinancialInfoEffectiveFrom: in.EnrolledAt,
			}
			if err := tx.Create(&fi).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

type UpdateStudentInput struct {
	Name     *string
	Phone    *string
	Email    *string
	Guardian datatypes.JSONMap
}

func (s *StudentService) Update(studentID uuid.UUID, in UpdateStudentInput) (*studentModel.Student, error) {
	var st studentModel.Student
	if err := s.DB.First(&st, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
		}
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["student_name"] = *in.Name
	}
	if in.Phone != nil {
		updates["student_phone"] = *in.Phone
	}
	if in.Email != nil {
		updates["student_email"] = *in.Email
	}
	if in.Guardian != nil {
		updates["student_guardian"] = in.Guardian
	}
	if len(updates) == 0 {
		return &st, nil
	}

	if err := s.DB.Model(&st).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// Delete menolak bila penghuni sudah punya jejak ledger: riwayat keuangan
// append-only tidak boleh kehilangan induknya.
func (s *StudentService) Delete(studentID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var st studentModel.Student
		if err := tx.First(&st, "student_id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
			}
			return err
		}

		var entries int64
		if err := tx.Model(&ledgerModel.LedgerEntry{}).
			Where("ledger_entry_student_id = ?", studentID).
			Count(&entries).Error; err != nil {
			return err
		}
		if entries > 0 {
			return fmt.Errorf("%w: penghuni punya %d entri ledger, gunakan checkout", helper.ErrInvalidTransition, entries)
		}

		if st.StudentBedID != nil {
			if err := tx.Model(&roomModel.Bed{}).
				Where("bed_id = ?", *st.StudentBedID).
				Update("bed_status", roomModel.BedStatusAvailable).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&st).Error
	})
}

// =======================================================
// PENEMPATAN BED
// =======================================================

// AssignBed menempatkan / memindahkan penghuni; bed lama dibebaskan.
func (s *StudentService) AssignBed(studentID, bedID uuid.UUID) (*studentModel.Student, error) {
	var st studentModel.Student
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&st, "student_id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
			}
			return err
		}
		if !st.IsActive() {
			return fmt.Errorf("%w: penghuni tidak aktif", helper.ErrInvalidTransition)
		}

		if st.StudentBedID != nil {
			if *st.StudentBedID == bedID {
				return nil
			}
			if err := tx.Model(&roomModel.Bed{}).
				Where("bed_id = ?", *st.StudentBedID).
				Update("bed_status", roomModel.BedStatusAvailable).Error; err != nil {
				return err
			}
		}

		return occupyBed(tx, &st, bedID)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func occupyBed(tx *gorm.DB, st *studentModel.Student, bedID uuid.UUID) error {
	var bed roomModel.Bed
	if err := tx.First(&bed, "bed_id = ?", bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: bed %s", helper.ErrNotFound, bedID)
		}
		return err
	}
	if bed.BedStatus != roomModel.BedStatusAvailable {
		return fmt.Errorf("%w: bed %s sedang %s", helper.ErrInvalidTransition, bed.BedLabel, bed.BedStatus)
	}

	if err := tx.Model(&roomModel.Bed{}).
		Where("bed_id = ?", bedID).
		Update("bed_status", roomModel.BedStatusOccupied).Error; err != nil {
		return err
	}

	st.StudentBedID = &bedID
	return tx.Model(&studentModel.Student{}).
		Where("student_id = ?", st.StudentID).
		Update("student_bed_id", bedID).Error
}

// =======================================================
// KOMPONEN BIAYA
// =======================================================

func (s *StudentService) AddFeeComponent(studentID uuid.UUID, feeType studentModel.FeeType, amount decimal.Decimal, effectiveFrom time.Time) (*studentModel.FinancialInfo, error) {
	if !feeType.Valid() {
		return nil, fmt.Errorf("%w: fee_type %q tidak dikenal", helper.ErrInvalidArgument, feeType)
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount harus > 0", helper.ErrInvalidArgument)
	}

	var fi studentModel.FinancialInfo
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var st studentModel.Student
		if err := tx.First(&st, "student_id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
			}
			return err
		}

		fi = studentModel.FinancialInfo{
			FinancialInfoStudentID:     studentID,
			FinancialInfoFeeType:       feeType,
			FinancialInfoAmount:        amount,
			FinancialInfoIsActive:      true,
			FinancialInfoEffectiveFrom: effectiveFrom,
		}
		return tx.Create(&fi).Error
	})
	if err != nil {
		return nil, err
	}
	return &fi, nil
}

// DeactivateFeeComponent mematikan komponen biaya, bukan menghapusnya:
// invoice lama tetap bisa ditelusuri ke komponen asalnya.
func (s *StudentService) DeactivateFeeComponent(infoID uuid.UUID) (*studentModel.FinancialInfo, error) {
	var fi studentModel.FinancialInfo
	if err := s.DB.First(&fi, "financial_info_id = ?", infoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: financial info %s", helper.ErrNotFound, infoID)
		}
		return nil, err
	}
	if !fi.FinancialInfoIsActive {
		return nil, fmt.Errorf("%w: komponen sudah nonaktif", helper.ErrInvalidTransition)
	}

	fi.FinancialInfoIsActive = false
	if err := s.DB.Model(&fi).Update("financial_info_is_active", false).Error; err != nil {
		return nil, err
	}
	return &fi, nil
}
