package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

/* ===============================
   Taksonomi error service → HTTP
=================================*/

// Sentinel untuk layer service; bungkus dengan fmt.Errorf("%w: detail").
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnauthorized      = errors.New("unauthorized")
)

// JsonServiceError memetakan error service ke status HTTP standar.
// NotFound → 404, InvalidArgument → 400, InvalidTransition → 409, sisanya 500.
func JsonServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return JsonError(c, fiber.StatusUnauthorized, err.Error())
	default:
		return JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

// IsUniqueViolation: cek duplikat via kode error Postgres (23505),
// fallback string-match untuk driver lain (sqlite di test).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
