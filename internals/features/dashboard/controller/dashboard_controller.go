package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billingModel "hostelku_backend/internals/features/finance/billings/model"
	checkoutModel "hostelku_backend/internals/features/hostel/checkout/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// =======================================================
// GET /api/a/dashboard — ringkasan operasional hostel
// =======================================================
func (h *DashboardController) GetSummary(c *fiber.Ctx) error {
	now := time.Now()

	var activeStudents int64
	if err := h.DB.Model(&studentModel.Student{}).
		Where("student_status = ?", studentModel.StudentStatusActive).
		Count(&activeStudents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var bedsTotal, bedsOccupied int64
	if err := h.DB.Model(&roomModel.Bed{}).Count(&bedsTotal).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&roomModel.Bed{}).
		Where("bed_status = ?", roomModel.BedStatusOccupied).
		Count(&bedsOccupied).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Tagihan vs setoran periode berjalan
	type periodSums struct {
		Invoiced  decimal.Decimal `gorm:"column:invoiced"`
		Collected decimal.Decimal `gorm:"column:collected"`
	}
	var period periodSums
	if err := h.DB.Model(&billingModel.Invoice{}).
		Select("COALESCE(SUM(invoice_total), 0) AS invoiced, COALESCE(SUM(invoice_paid_amount), 0) AS collected").
		Where("invoice_year = ? AND invoice_month = ?", now.Year(), int(now.Month())).
		Scan(&period).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Total tunggakan semua invoice yang masih terbuka
	var outstanding decimal.Decimal
	if err := h.DB.Model(&billingModel.Invoice{}).
		Select("COALESCE(SUM(invoice_total - invoice_paid_amount - invoice_discount_amount), 0)").
		Where("invoice_status IN ?", []billingModel.InvoiceStatus{
			billingModel.InvoiceStatusUnpaid,
			billingModel.InvoiceStatusPartiallyPaid,
			billingModel.InvoiceStatusOverdue,
		}).
		Scan(&outstanding).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if outstanding.Sign() < 0 {
		outstanding = decimal.Zero
	}

	var overdueInvoices int64
	if err := h.DB.Model(&billingModel.Invoice{}).
		Where("invoice_status = ?", billingModel.InvoiceStatusOverdue).
		Count(&overdueInvoices).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var checkoutsWithDues int64
	if err := h.DB.Model(&checkoutModel.CheckoutRecord{}).
		Where("checkout_record_cleared = ?", false).
		Count(&checkoutsWithDues).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "dashboard summary", fiber.Map{
		"active_students": activeStudents,
		"occupancy": fiber.Map{
			"beds_total":    bedsTotal,
			"beds_occupied": bedsOccupied,
		},
		"current_period": fiber.Map{
			"year":      now.Year(),
			"month":     int(now.Month()),
			"invoiced":  period.Invoiced,
			"collected": period.Collected,
		},
		"outstanding_total":   outstanding,
		"overdue_invoices":    overdueInvoices,
		"checkouts_with_dues": checkoutsWithDues,
	})
}
