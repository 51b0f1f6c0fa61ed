package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(rawToken string) (bool, error) // return true jika token di-blacklist
	AllowCookieFallback bool                                // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT memverifikasi bearer token HMAC dan menaruh klaim di Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Cek blacklist (opsional). Checker error → tolak, jangan
		// meloloskan token yang statusnya tidak bisa dipastikan.
		if o.BlacklistChecker != nil {
			black, err := o.BlacklistChecker(raw)
			if err != nil {
				log.Printf("[AUTH] gagal cek blacklist: %v", err)
				return fiber.NewError(fiber.StatusServiceUnavailable, "Auth store unavailable")
			}
			if black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		// 3) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			if uid, err := uuid.Parse(sub); err == nil {
				c.Locals("user_id", uid)
			}
		}
		if role, _ := claims["role"].(string); role != "" {
			c.Locals("role", role)
		}
		c.Locals("raw_token", raw)

		return c.Next()
	}
}

// UserIDFromContext mengambil user_id hasil AuthJWT.
func UserIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	uid, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || uid == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return uid, nil
}
