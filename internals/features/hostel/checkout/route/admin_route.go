package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkoutController "hostelku_backend/internals/features/hostel/checkout/controller"
)

func CheckoutAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := checkoutController.NewCheckoutController(db)

	r.Get("/students/:id/checkout/preview", ctrl.PreviewCheckout)
	r.Post("/students/:id/checkout", ctrl.Checkout)

	grp := r.Group("/checkouts")
	grp.Get("/with-dues", ctrl.ListWithDues)
	grp.Patch("/:id/clear", ctrl.ClearDues)
}
