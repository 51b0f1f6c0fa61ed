package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/finance/discounts/dto"
	discountModel "hostelku_backend/internals/features/finance/discounts/model"
	service "hostelku_backend/internals/features/finance/discounts/service"
	helper "hostelku_backend/internals/helpers"
)

type DiscountController struct {
	DB      *gorm.DB
	Service *service.DiscountService
}

func NewDiscountController(db *gorm.DB) *DiscountController {
	return &DiscountController{DB: db, Service: service.NewDiscountService(db)}
}

// =======================================================
// POST /api/a/discounts
// =======================================================
func (h *DiscountController) CreateDiscount(c *fiber.Ctx) error {
	var in dto.DiscountCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}
	if in.Value.Sign() <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "value harus > 0")
	}
	if in.ValidUntil.Before(in.ValidFrom) {
		return helper.JsonError(c, fiber.StatusBadRequest, "valid_until sebelum valid_from")
	}

	d := discountModel.Discount{
		DiscountStudentID:  in.StudentID,
		DiscountKind:       discountModel.DiscountKind(in.Kind),
		DiscountValue:      in.Value,
		DiscountInvoiceID:  in.InvoiceID,
		DiscountValidFrom:  in.ValidFrom,
		DiscountValidUntil: in.ValidUntil,
		DiscountStatus:     discountModel.DiscountStatusActive,
		DiscountReason:     in.Reason,
	}
	if err := h.DB.Create(&d).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "discount created", d)
}

// =======================================================
// GET /api/a/discounts
// =======================================================
func (h *DiscountController) ListDiscounts(c *fiber.Ctx) error {
	var q dto.DiscountListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&discountModel.Discount{})
	if q.StudentID != "" {
		sid, err := uuid.Parse(q.StudentID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		tx = tx.Where("discount_student_id = ?", sid)
	}
	if q.Status != "" {
		tx = tx.Where("discount_status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var discounts []discountModel.Discount
	if err := tx.
		Order("discount_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&discounts).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "discounts", discounts, &p)
}

// =======================================================
// POST /api/a/discounts/:id/apply
// =======================================================
func (h *DiscountController) ApplyDiscount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	d, err := h.Service.Apply(id, time.Now())
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "discount applied", d)
}

// =======================================================
// POST /api/a/discounts/:id/cancel
// =======================================================
func (h *DiscountController) CancelDiscount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	d, err := h.Service.Cancel(id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "discount cancelled", d)
}
