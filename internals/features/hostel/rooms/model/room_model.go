package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// MODEL rooms
// =========================================================

type Room struct {
	RoomID uuid.UUID `gorm:"column:room_id;type:uuid;primaryKey" json:"room_id"`

	RoomNumber string  `gorm:"column:room_number;type:varchar(20);not null;uniqueIndex" json:"room_number"`
	RoomBlock  *string `gorm:"column:room_block;type:varchar(20)" json:"room_block,omitempty"`
	RoomFloor  *int    `gorm:"column:room_floor" json:"room_floor,omitempty"`

	RoomCapacity int `gorm:"column:room_capacity;not null;check:room_capacity > 0" json:"room_capacity"`

	// Tarif acuan saat membuat komponen biaya penghuni baru
	RoomMonthlyRate decimal.Decimal `gorm:"column:room_monthly_rate;type:numeric(14,2);not null" json:"room_monthly_rate"`

	RoomAmenities datatypes.JSONSlice[string] `gorm:"column:room_amenities;type:jsonb" json:"room_amenities,omitempty"`

	RoomCreatedAt time.Time      `gorm:"column:room_created_at;not null;autoCreateTime" json:"room_created_at"`
	RoomUpdatedAt time.Time      `gorm:"column:room_updated_at;not null;autoUpdateTime" json:"room_updated_at"`
	RoomDeletedAt gorm.DeletedAt `gorm:"column:room_deleted_at;index" json:"-"`
}

func (Room) TableName() string { return "rooms" }

func (m *Room) BeforeCreate(tx *gorm.DB) error {
	if m.RoomID == uuid.Nil {
		m.RoomID = uuid.New()
	}
	return nil
}

// =========================================================
// MODEL beds
// =========================================================

type BedStatus string

const (
	BedStatusAvailable   BedStatus = "available"
	BedStatusOccupied    BedStatus = "occupied"
	BedStatusMaintenance BedStatus = "maintenance"
)

type Bed struct {
	BedID uuid.UUID `gorm:"column:bed_id;type:uuid;primaryKey" json:"bed_id"`

	// FK → rooms
	BedRoomID uuid.UUID `gorm:"column:bed_room_id;type:uuid;not null;index;uniqueIndex:uniq_room_bed,priority:1" json:"bed_room_id"`

	BedLabel  string    `gorm:"column:bed_label;type:varchar(10);not null;uniqueIndex:uniq_room_bed,priority:2" json:"bed_label"`
	BedStatus BedStatus `gorm:"column:bed_status;type:varchar(20);not null;default:'available';index" json:"bed_status"`

	BedCreatedAt time.Time      `gorm:"column:bed_created_at;not null;autoCreateTime" json:"bed_created_at"`
	BedUpdatedAt time.Time      `gorm:"column:bed_updated_at;not null;autoUpdateTime" json:"bed_updated_at"`
	BedDeletedAt gorm.DeletedAt `gorm:"column:bed_deleted_at;index" json:"-"`
}

func (Bed) TableName() string { return "beds" }

func (m *Bed) BeforeCreate(tx *gorm.DB) error {
	if m.BedID == uuid.Nil {
		m.BedID = uuid.New()
	}
	return nil
}
