package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/finance/ledger/dto"
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	service "hostelku_backend/internals/features/finance/ledger/service"
	helper "hostelku_backend/internals/helpers"
)

type LedgerController struct {
	DB      *gorm.DB
	Service *service.LedgerService
}

func NewLedgerController(db *gorm.DB) *LedgerController {
	return &LedgerController{DB: db, Service: service.NewLedgerService(db)}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// =======================================================
// GET /api/a/ledger/students/:id — statement + ringkasan saldo
// =======================================================
func (h *LedgerController) GetStatement(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	paging := helper.ResolvePaging(c, 50, 500)

	summary, err := h.Service.GetBalance(studentID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	entries, total, err := h.Service.GetEntries(studentID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ledger statement", dto.StatementResponse{
		Summary: summary,
		Entries: entries,
	}, &p)
}

// =======================================================
// GET /api/a/ledger/students/:id/balance — saldo saja (untuk dashboard)
// =======================================================
func (h *LedgerController) GetBalance(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	summary, err := h.Service.GetBalance(studentID)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonOK(c, "ledger balance", summary)
}

// =======================================================
// POST /api/a/ledger/students/:id/adjustments — koreksi manual
// =======================================================
func (h *LedgerController) CreateAdjustment(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var in dto.AdjustmentCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	entry, err := h.Service.AddEntry(service.AddEntryInput{
		StudentID:   studentID,
		Type:        ledgerModel.LedgerEntryTypeAdjustment,
		Debit:       in.Debit,
		Credit:      in.Credit,
		ReferenceID: in.ReferenceID,
		Description: in.Description,
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "adjustment posted", entry)
}
