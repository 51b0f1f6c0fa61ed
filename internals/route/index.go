package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hostelku_backend/internals/configs"
	dashboardRoute "hostelku_backend/internals/features/dashboard/route"
	adminChargeRoute "hostelku_backend/internals/features/finance/admincharges/route"
	billingRoute "hostelku_backend/internals/features/finance/billings/route"
	discountRoute "hostelku_backend/internals/features/finance/discounts/route"
	ledgerRoute "hostelku_backend/internals/features/finance/ledger/route"
	paymentRoute "hostelku_backend/internals/features/finance/payments/route"
	checkoutRoute "hostelku_backend/internals/features/hostel/checkout/route"
	roomRoute "hostelku_backend/internals/features/hostel/rooms/route"
	studentRoute "hostelku_backend/internals/features/hostel/students/route"
	authRoute "hostelku_backend/internals/features/users/auth/route"
	authService "hostelku_backend/internals/features/users/auth/service"
	authMiddleware "hostelku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Static foto penghuni
	app.Static("/uploads", configs.UploadDir)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")
	authRoute.AuthPublicRoutes(public, db)
	paymentRoute.PaymentPublicRoutes(public, db) // webhook payment gateway

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + blacklist check)...")
	auth := authService.NewAuthService(db)
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			BlacklistChecker:    auth.IsBlacklisted,
			AllowCookieFallback: true,
		}),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Auth routes...")
	authRoute.AuthProtectedRoutes(admin, db)

	log.Println("[INFO] Mounting Hostel routes...")
	studentRoute.StudentAdminRoutes(admin, db)
	roomRoute.RoomAdminRoutes(admin, db)
	checkoutRoute.CheckoutAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Finance routes...")
	ledgerRoute.LedgerAdminRoutes(admin, db)
	billingRoute.BillingAdminRoutes(admin, db)
	paymentRoute.PaymentAdminRoutes(admin, db)
	discountRoute.DiscountAdminRoutes(admin, db)
	adminChargeRoute.AdminChargeAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Dashboard routes...")
	dashboardRoute.DashboardAdminRoutes(admin, db)
}
