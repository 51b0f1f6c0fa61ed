package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/finance/billings/dto"
	billingModel "hostelku_backend/internals/features/finance/billings/model"
	service "hostelku_backend/internals/features/finance/billings/service"
	helper "hostelku_backend/internals/helpers"
)

type InvoiceController struct {
	DB      *gorm.DB
	Service *service.BillingService
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db, Service: service.NewBillingService(db)}
}

// =======================================================
// POST /api/a/invoices/generate — batch bulanan
// Partial failure: per-student error terkumpul di result, status tetap 200.
// =======================================================
func (h *InvoiceController) GenerateInvoices(c *fiber.Ctx) error {
	var in dto.GenerateInvoicesDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	res, err := h.Service.GenerateMonthlyInvoices(in.Month, in.Year, in.DueDate)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "invoice generation finished", res)
}

// =======================================================
// GET /api/a/invoices — list + filter + pagination
// =======================================================
func (h *InvoiceController) ListInvoices(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&billingModel.Invoice{})
	if q.StudentID != "" {
		sid, err := uuid.Parse(q.StudentID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		tx = tx.Where("invoice_student_id = ?", sid)
	}
	if q.Status != "" {
		tx = tx.Where("invoice_status = ?", q.Status)
	}
	if q.Year != 0 {
		tx = tx.Where("invoice_year = ?", q.Year)
	}
	if q.Month != 0 {
		tx = tx.Where("invoice_month = ?", q.Month)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var invoices []billingModel.Invoice
	if err := tx.
		Order("invoice_due_date DESC, invoice_number ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&invoices).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "invoices", invoices, &p)
}

// =======================================================
// GET /api/a/invoices/:id — detail + line items
// =======================================================
func (h *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var inv billingModel.Invoice
	if err := h.DB.Preload("InvoiceItems").
		First(&inv, "invoice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "invoice not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "invoice detail", inv)
}
