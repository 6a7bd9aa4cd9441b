package handler

import (
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	log     *zap.Logger
}

func NewProductHandler(s service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, log: log}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	if errs := validator.ValidateStruct(&product); len(errs) > 0 {
		return respond(c, fiber.StatusBadRequest, "validation failed on field "+errs[0].FailedField, nil)
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "product created", product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid product id", nil)
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "product updated", updated)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "products fetched", products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid product id", nil)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "product fetched", product)
}
