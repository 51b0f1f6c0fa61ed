package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/finance/admincharges/dto"
	chargeModel "hostelku_backend/internals/features/finance/admincharges/model"
	service "hostelku_backend/internals/features/finance/admincharges/service"
	helper "hostelku_backend/internals/helpers"
)

type AdminChargeController struct {
	DB      *gorm.DB
	Service *service.AdminChargeService
}

func NewAdminChargeController(db *gorm.DB) *AdminChargeController {
	return &AdminChargeController{DB: db, Service: service.NewAdminChargeService(db)}
}

// =======================================================
// POST /api/a/admin-charges
// =======================================================
func (h *AdminChargeController) CreateCharge(c *fiber.Ctx) error {
	var in dto.AdminChargeCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	charge, err := h.Service.Create(service.CreateChargeInput{
		StudentID: in.StudentID,
		Title:     in.Title,
		Amount:    in.Amount,
		Months:    in.Months,
		Note:      in.Note,
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "admin charge created", charge)
}

// =======================================================
// GET /api/a/admin-charges
// =======================================================
func (h *AdminChargeController) ListCharges(c *fiber.Ctx) error {
	var q dto.AdminChargeListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&chargeModel.AdminCharge{})
	if q.StudentID != "" {
		sid, err := uuid.Parse(q.StudentID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		tx = tx.Where("admin_charge_student_id = ?", sid)
	}
	if q.Status != "" {
		tx = tx.Where("admin_charge_status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var charges []chargeModel.AdminCharge
	if err := tx.
		Order("admin_charge_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&charges).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "admin charges", charges, &p)
}

// =======================================================
// PATCH /api/a/admin-charges/:id (pending only)
// =======================================================
func (h *AdminChargeController) UpdateCharge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.AdminChargeUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	charge, err := h.Service.Update(id, in.Title, in.Amount, in.Months, in.Note)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonUpdated(c, "admin charge updated", charge)
}

// =======================================================
// POST /api/a/admin-charges/:id/apply
// =======================================================
func (h *AdminChargeController) ApplyCharge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	charge, err := h.Service.Apply(id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "admin charge applied", charge)
}

// =======================================================
// POST /api/a/admin-charges/:id/cancel
// =======================================================
func (h *AdminChargeController) CancelCharge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	charge, err := h.Service.Cancel(id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "admin charge cancelled", charge)
}
