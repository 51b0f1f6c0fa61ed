package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardController "hostelku_backend/internals/features/dashboard/controller"
)

func DashboardAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := dashboardController.NewDashboardController(db)
	r.Get("/dashboard", ctrl.GetSummary)
}
