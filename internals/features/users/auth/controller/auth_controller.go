package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/users/auth/dto"
	service "hostelku_backend/internals/features/users/auth/service"
	helper "hostelku_backend/internals/helpers"
)

type AuthController struct {
	DB      *gorm.DB
	Service *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Service: service.NewAuthService(db)}
}

func (h *AuthController) setAccessCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  expires,
	})
}

// =======================================================
// POST /api/auth/login
// =======================================================
func (h *AuthController) Login(c *fiber.Ctx) error {
	var in dto.LoginDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	res, err := h.Service.Login(in.Identifier, in.Password)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	h.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, "login berhasil", res)
}

// =======================================================
// POST /api/auth/login-google
// =======================================================
func (h *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var in dto.LoginGoogleDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	res, err := h.Service.LoginGoogle(in.IDToken)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}

	h.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, "login berhasil", res)
}

// =======================================================
// POST /api/a/auth/logout
// =======================================================
func (h *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals("raw_token").(string)
	if err := h.Service.Logout(raw); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal logout")
	}

	// Hapus cookie (idempotent)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "logout berhasil", nil)
}

// =======================================================
// POST /api/a/auth/register — tambah operator, admin only
// =======================================================
func (h *AuthController) Register(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != "admin" {
		return helper.JsonError(c, fiber.StatusForbidden, "hanya admin yang boleh menambah operator")
	}

	var in dto.RegisterDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := helper.ValidateStruct(in); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	user, err := h.Service.Register(service.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "operator created", user)
}
