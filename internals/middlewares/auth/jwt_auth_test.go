package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func testToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "7b0f4efc-0f0f-4c59-9f3a-1da62cf6a6a0",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newProtectedApp(checker func(string) (bool, error)) *fiber.App {
	app := fiber.New()
	app.Get("/ping", AuthJWT(AuthJWTOpts{
		Secret:           testSecret,
		BlacklistChecker: checker,
	}), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAuthJWT_ValidToken(t *testing.T) {
	app := newProtectedApp(func(string) (bool, error) { return false, nil })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, testSecret))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthJWT_MissingOrBadToken(t *testing.T) {
	app := newProtectedApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, "secret-lain"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthJWT_BlacklistedTokenRejected(t *testing.T) {
	app := newProtectedApp(func(string) (bool, error) { return true, nil })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, testSecret))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthJWT_BlacklistCheckerErrorRejects(t *testing.T) {
	// Status blacklist tidak bisa dipastikan → tolak, bukan loloskan
	app := newProtectedApp(func(string) (bool, error) { return false, errors.New("db down") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, testSecret))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
