package route

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "hostelku_backend/internals/databases"
)

func TestCheckoutAdminRoutes_Registration(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateAll(db))

	app := fiber.New()
	CheckoutAdminRoutes(app.Group("/api/a"), db)

	want := map[string]string{
		"/api/a/students/:id/checkout/preview": fiber.MethodGet,
		"/api/a/students/:id/checkout":         fiber.MethodPost,
		"/api/a/checkouts/with-dues":           fiber.MethodGet,
		"/api/a/checkouts/:id/clear":           fiber.MethodPatch,
	}
	got := map[string]string{}
	for _, rt := range app.GetRoutes() {
		if rt.Method == fiber.MethodHead {
			// fiber auto-registers a HEAD route for every GET route
			continue
		}
		if _, ok := want[rt.Path]; ok {
			got[rt.Path] = rt.Method
		}
	}
	require.Equal(t, want, got)
}
