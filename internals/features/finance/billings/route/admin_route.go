package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "hostelku_backend/internals/features/finance/billings/controller"
)

// BillingAdminRoutes: generate bulanan + listing invoice.
func BillingAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewInvoiceController(db)

	g := r.Group("/invoices")
	g.Post("/generate", h.GenerateInvoices)
	g.Get("/", h.ListInvoices)
	g.Get("/:id", h.GetInvoice)
}
