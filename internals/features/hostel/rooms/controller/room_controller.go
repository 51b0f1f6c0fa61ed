package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/hostel/rooms/dto"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

// =======================================================
// POST /api/a/rooms
// =======================================================
func (h *RoomController) CreateRoom(c *fiber.Ctx) error {
	var in dto.RoomCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}
	if in.MonthlyRate.Sign() < 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "monthly_rate tidak boleh negatif")
	}
	if len(in.BedLabels) > in.Capacity {
		return helper.JsonError(c, fiber.StatusBadRequest, "bed_labels melebihi capacity")
	}

	labels := in.BedLabels
	if len(labels) == 0 {
		for i := 0; i < in.Capacity; i++ {
			labels = append(labels, string(rune('A'+i)))
		}
	}

	var room roomModel.Room
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		room = roomModel.Room{
			RoomNumber:      in.Number,
			RoomBlock:       in.Block,
			RoomFloor:       in.Floor,
			RoomCapacity:    in.Capacity,
			RoomMonthlyRate: in.MonthlyRate,
			RoomAmenities:   datatypes.JSONSlice[string](in.Amenities),
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		for _, label := range labels {
			bed := roomModel.Bed{
				BedRoomID: room.RoomID,
				BedLabel:  label,
				BedStatus: roomModel.BedStatusAvailable,
			}
			if err := tx.Create(&bed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "room number sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "room created", room)
}

// =======================================================
// GET /api/a/rooms — termasuk ringkasan okupansi per kamar
// =======================================================
func (h *RoomController) ListRooms(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	var total int64
	if err := h.DB.Model(&roomModel.Room{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rooms []roomModel.Room
	if err := h.DB.
		Order("room_number ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	type roomRow struct {
		roomModel.Room
		BedsTotal    int64 `json:"beds_total"`
		BedsOccupied int64 `json:"beds_occupied"`
	}
	rows := make([]roomRow, 0, len(rooms))
	for _, room := range rooms {
		var bedsTotal, bedsOccupied int64
		if err := h.DB.Model(&roomModel.Bed{}).
			Where("bed_room_id = ?", room.RoomID).
			Count(&bedsTotal).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if err := h.DB.Model(&roomModel.Bed{}).
			Where("bed_room_id = ? AND bed_status = ?", room.RoomID, roomModel.BedStatusOccupied).
			Count(&bedsOccupied).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		rows = append(rows, roomRow{Room: room, BedsTotal: bedsTotal, BedsOccupied: bedsOccupied})
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "rooms", rows, &p)
}

// =======================================================
// GET /api/a/rooms/:id — detail kamar + bed + penghuninya
// =======================================================
func (h *RoomController) GetRoom(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var room roomModel.Room
	if err := h.DB.First(&room, "room_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "room tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var beds []roomModel.Bed
	if err := h.DB.
		Where("bed_room_id = ?", id).
		Order("bed_label ASC").
		Find(&beds).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	type bedRow struct {
		roomModel.Bed
		Occupant *studentModel.Student `json:"occupant,omitempty"`
	}
	rows := make([]bedRow, 0, len(beds))
	for _, bed := range beds {
		row := bedRow{Bed: bed}
		if bed.BedStatus == roomModel.BedStatusOccupied {
			var st studentModel.Student
			if err := h.DB.First(&st, "student_bed_id = ?", bed.BedID).Error; err == nil {
				row.Occupant = &st
			}
		}
		rows = append(rows, row)
	}

	return helper.JsonOK(c, "room detail", fiber.Map{
		"room": room,
		"beds": rows,
	})
}

// =======================================================
// PATCH /api/a/rooms/:id
// =======================================================
func (h *RoomController) UpdateRoom(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.RoomUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	var room roomModel.Room
	if err := h.DB.First(&room, "room_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "room tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updates := map[string]any{}
	if in.Block != nil {
		updates["room_block"] = *in.Block
	}
	if in.Floor != nil {
		updates["room_floor"] = *in.Floor
	}
	if in.MonthlyRate != nil {
		if in.MonthlyRate.Sign() < 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "monthly_rate tidak boleh negatif")
		}
		updates["room_monthly_rate"] = *in.MonthlyRate
	}
	if in.Amenities != nil {
		updates["room_amenities"] = datatypes.JSONSlice[string](in.Amenities)
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&room).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonUpdated(c, "room updated", room)
}

// =======================================================
// POST /api/a/rooms/:id/beds
// =======================================================
func (h *RoomController) AddBed(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.BedCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	var room roomModel.Room
	if err := h.DB.First(&room, "room_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "room tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var existing int64
	if err := h.DB.Model(&roomModel.Bed{}).
		Where("bed_room_id = ?", id).
		Count(&existing).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if int(existing) >= room.RoomCapacity {
		return helper.JsonError(c, fiber.StatusConflict,
			fmt.Sprintf("capacity %d sudah penuh", room.RoomCapacity))
	}

	bed := roomModel.Bed{
		BedRoomID: id,
		BedLabel:  in.Label,
		BedStatus: roomModel.BedStatusAvailable,
	}
	if err := h.DB.Create(&bed).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "label bed sudah dipakai di kamar ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "bed created", bed)
}

// =======================================================
// PATCH /api/a/rooms/beds/:bedId/status — available/maintenance saja;
// occupied hanya lewat penempatan penghuni
// =======================================================
func (h *RoomController) SetBedStatus(c *fiber.Ctx) error {
	bedID, err := uuid.Parse(c.Params("bedId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.BedStatusDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	var bed roomModel.Bed
	if err := h.DB.First(&bed, "bed_id = ?", bedID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "bed tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if bed.BedStatus == roomModel.BedStatusOccupied {
		return helper.JsonError(c, fiber.StatusConflict, "bed masih ditempati")
	}

	bed.BedStatus = roomModel.BedStatus(in.Status)
	if err := h.DB.Model(&bed).Update("bed_status", bed.BedStatus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "bed status updated", bed)
}

// =======================================================
// GET /api/a/rooms/beds/available
// =======================================================
func (h *RoomController) ListAvailableBeds(c *fiber.Ctx) error {
	var beds []roomModel.Bed
	if err := h.DB.
		Where("bed_status = ?", roomModel.BedStatusAvailable).
		Order("bed_label ASC").
		Find(&beds).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "available beds", beds)
}
