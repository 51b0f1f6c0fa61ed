package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/finance/payments/dto"
	paymentModel "hostelku_backend/internals/features/finance/payments/model"
	service "hostelku_backend/internals/features/finance/payments/service"
	helper "hostelku_backend/internals/helpers"
)

type PaymentController struct {
	DB      *gorm.DB
	Service *service.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Service: service.NewPaymentService(db)}
}

func toAllocInputs(in []dto.AllocationDTO) []service.AllocationInput {
	out := make([]service.AllocationInput, 0, len(in))
	for _, a := range in {
		out = append(out, service.AllocationInput{InvoiceID: a.InvoiceID, Amount: a.Amount})
	}
	return out
}

// =======================================================
// POST /api/a/payments — pembayaran manual + alokasi
// =======================================================
func (h *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var in dto.PaymentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	pay, err := h.Service.RecordPayment(service.RecordPaymentInput{
		StudentID:   in.StudentID,
		Amount:      in.Amount,
		Method:      in.Method,
		Reference:   in.Reference,
		Allocations: toAllocInputs(in.Allocations),
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", pay)
}

// =======================================================
// POST /api/a/payments/:id/allocations — alokasi eksplisit atas sisa
// =======================================================
func (h *PaymentController) AllocatePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.PaymentAllocateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	pay, err := h.Service.Allocate(id, toAllocInputs(in.Allocations))
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "payment allocated", pay)
}

// =======================================================
// GET /api/a/payments — list + filter
// =======================================================
func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	var q dto.PaymentListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&paymentModel.Payment{})
	if q.StudentID != "" {
		sid, err := uuid.Parse(q.StudentID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		tx = tx.Where("payment_student_id = ?", sid)
	}
	if q.Status != "" {
		tx = tx.Where("payment_status = ?", q.Status)
	}
	if q.Method != "" {
		tx = tx.Where("payment_method = ?", q.Method)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var payments []paymentModel.Payment
	if err := tx.
		Order("payment_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "payments", payments, &p)
}

// =======================================================
// GET /api/a/payments/:id — detail + alokasi
// =======================================================
func (h *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var pay paymentModel.Payment
	if err := h.DB.First(&pay, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var allocs []paymentModel.PaymentInvoiceAllocation
	if err := h.DB.
		Where("allocation_payment_id = ?", id).
		Order("allocation_created_at ASC").
		Find(&allocs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "payment detail", fiber.Map{
		"payment":     pay,
		"allocations": allocs,
	})
}

// =======================================================
// POST /api/a/payments/gateway — buat transaksi Snap
// =======================================================
func (h *PaymentController) CreateGatewayPayment(c *fiber.Ctx) error {
	var in dto.GatewayPaymentDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	pay, err := h.Service.CreateGatewayPayment(in.StudentID, in.Amount)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "gateway payment created", pay)
}

// =======================================================
// POST /api/public/payments/midtrans/callback — webhook Midtrans
// =======================================================
func (h *PaymentController) MidtransCallback(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}

	if err := h.Service.HandleMidtransWebhook(body); err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "callback processed", nil)
}
