package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	user, err := h.service.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	result, err := h.service.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "login successful", result)
}

// Me returns the identity resolved by the auth middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "current user", fiber.Map{
		"id":    c.Locals("user_id"),
		"name":  c.Locals("user_name"),
		"email": c.Locals("user_email"),
		"role":  c.Locals("user_role"),
	})
}
