package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "hostelku_backend/internals/features/users/auth/controller"
	"hostelku_backend/internals/middlewares"
)

// AuthPublicRoutes: login dibatasi rate limiter khusus.
func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	grp := r.Group("/auth")
	grp.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	grp.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
}

// AuthProtectedRoutes: butuh token valid.
func AuthProtectedRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	grp := r.Group("/auth")
	grp.Post("/logout", ctrl.Logout)
	grp.Post("/register", ctrl.Register)
}
