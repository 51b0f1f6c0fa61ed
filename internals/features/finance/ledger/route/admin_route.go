package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "hostelku_backend/internals/features/finance/ledger/controller"
)

// LedgerAdminRoutes: statement, saldo, dan koreksi manual.
func LedgerAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewLedgerController(db)

	g := r.Group("/ledger")
	g.Get("/students/:id", h.GetStatement)
	g.Get("/students/:id/balance", h.GetBalance)
	g.Post("/students/:id/adjustments", h.CreateAdjustment)
}
