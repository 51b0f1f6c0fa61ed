package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chargeController "hostelku_backend/internals/features/finance/admincharges/controller"
)

func AdminChargeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := chargeController.NewAdminChargeController(db)

	grp := r.Group("/admin-charges")
	grp.Post("/", ctrl.CreateCharge)
	grp.Get("/", ctrl.ListCharges)
	grp.Patch("/:id", ctrl.UpdateCharge)
	grp.Post("/:id/apply", ctrl.ApplyCharge)
	grp.Post("/:id/cancel", ctrl.CancelCharge)
}
