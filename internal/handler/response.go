package handler

import (
	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respond writes the common envelope: status, message and an optional payload.
func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	payload := fiber.Map{"status": status, "message": message}
	if data != nil {
		payload["data"] = data
	}
	return c.Status(status).JSON(payload)
}

// respondError maps the error taxonomy onto HTTP outcomes: not found 404,
// validation and insufficient stock 400, illegal status transition 409,
// exhausted concurrency retries 503, everything else 500.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case apperr.IsNotFound(err):
		return respond(c, fiber.StatusNotFound, err.Error(), nil)
	case apperr.IsInsufficientStock(err):
		return respond(c, fiber.StatusBadRequest, err.Error(), nil)
	case apperr.IsValidation(err):
		return respond(c, fiber.StatusBadRequest, err.Error(), nil)
	case apperr.IsInvalidStateTransition(err):
		return respond(c, fiber.StatusConflict, err.Error(), nil)
	case apperr.IsConcurrencyConflict(err):
		return respond(c, fiber.StatusServiceUnavailable, err.Error(), nil)
	case err == service.ErrInvalidCredentials:
		return respond(c, fiber.StatusUnauthorized, err.Error(), nil)
	default:
		log.Error("unexpected error", zap.Error(err))
		return respond(c, fiber.StatusInternalServerError, "internal server error", nil)
	}
}

func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("user_id").(uint); ok {
		return id
	}
	return 0
}
