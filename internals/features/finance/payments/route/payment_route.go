package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "hostelku_backend/internals/features/finance/payments/controller"
)

// PaymentAdminRoutes: pencatatan + alokasi pembayaran.
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewPaymentController(db)

	g := r.Group("/payments")
	g.Post("/", h.CreatePayment)
	g.Post("/gateway", h.CreateGatewayPayment)
	g.Get("/", h.ListPayments)
	g.Get("/:id", h.GetPayment)
	g.Post("/:id/allocations", h.AllocatePayment)
}

// PaymentPublicRoutes: webhook gateway (tanpa JWT; diverifikasi signature).
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewPaymentController(db)

	r.Post("/payments/midtrans/callback", h.MidtransCallback)
}
