package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	discountController "hostelku_backend/internals/features/finance/discounts/controller"
)

func DiscountAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := discountController.NewDiscountController(db)

	grp := r.Group("/discounts")
	grp.Post("/", ctrl.CreateDiscount)
	grp.Get("/", ctrl.ListDiscounts)
	grp.Post("/:id/apply", ctrl.ApplyDiscount)
	grp.Post("/:id/cancel", ctrl.CancelDiscount)
}
