package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/hostel/checkout/dto"
	service "hostelku_backend/internals/features/hostel/checkout/service"
	helper "hostelku_backend/internals/helpers"
)

type CheckoutController struct {
	DB      *gorm.DB
	Service *service.CheckoutService
}

func NewCheckoutController(db *gorm.DB) *CheckoutController {
	return &CheckoutController{DB: db, Service: service.NewCheckoutService(db)}
}

// =======================================================
// GET /api/a/students/:id/checkout/preview
// =======================================================
func (h *CheckoutController) PreviewCheckout(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	at := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid date, format YYYY-MM-DD")
		}
		at = parsed
	}

	pv, err := h.Service.CanCheckout(id, at)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "checkout preview", pv)
}

// =======================================================
// POST /api/a/students/:id/checkout
// =======================================================
func (h *CheckoutController) Checkout(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.CheckoutRequestDTO
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
		}
		if err := helper.ValidateStruct(in); err != nil {
			return helper.ValidationErrorResponse(c, err)
		}
	}

	at := time.Now()
	if in.Date != nil {
		at = *in.Date
	}

	res, err := h.Service.Checkout(id, at, in.Override, in.Note)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "checkout berhasil", res)
}

// =======================================================
// GET /api/a/checkouts/with-dues
// =======================================================
func (h *CheckoutController) ListWithDues(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	recs, total, err := h.Service.ListWithDues(paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "checkouts with dues", recs, &p)
}

// =======================================================
// POST /api/a/checkouts/:id/clear
// =======================================================
func (h *CheckoutController) ClearDues(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	rec, err := h.Service.ClearDues(id)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "tunggakan checkout ditandai lunas", rec)
}
