package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status penghuni
// =========================================================

type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "active"
	StudentStatusPendingDues StudentStatus = "pending_dues" // checkout dengan tunggakan (override)
	StudentStatusInactive    StudentStatus = "inactive"
)

// =========================================================
// MODEL students
// =========================================================

type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	// Kode manusiawi (dipakai di nomor invoice): STU001, STU002, ...
	StudentCode string `gorm:"column:student_code;type:varchar(20);not null;uniqueIndex" json:"student_code"`

	StudentName  string  `gorm:"column:student_name;type:varchar(120);not null;index" json:"student_name"`
	StudentPhone *string `gorm:"column:student_phone;type:varchar(30)" json:"student_phone,omitempty"`
	StudentEmail *string `gorm:"column:student_email;type:varchar(120)" json:"student_email,omitempty"`

	// Kontak wali / darurat (bebas bentuk)
	StudentGuardian datatypes.JSONMap `gorm:"column:student_guardian;type:jsonb" json:"student_guardian,omitempty"`

	// Penempatan kamar (nullable: belum/ sudah tidak menghuni)
	StudentBedID *uuid.UUID `gorm:"column:student_bed_id;type:uuid;index" json:"student_bed_id,omitempty"`

	StudentEnrolledAt time.Time     `gorm:"column:student_enrolled_at;type:date;not null" json:"student_enrolled_at"`
	StudentStatus     StudentStatus `gorm:"column:student_status;type:varchar(20);not null;default:'active';index" json:"student_status"`

	StudentPhotoURL *string `gorm:"column:student_photo_url" json:"student_photo_url,omitempty"`

	// Timestamps
	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string { return "students" }

func (m *Student) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	if m.StudentEnrolledAt.IsZero() {
		m.StudentEnrolledAt = time.Now()
	}
	return nil
}

func (m *Student) IsActive() bool { return m.StudentStatus == StudentStatusActive }
