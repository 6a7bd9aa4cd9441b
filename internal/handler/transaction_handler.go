package handler

import (
	"strconv"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	service service.TransactionService
	log     *zap.Logger
}

func NewTransactionHandler(s service.TransactionService, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{service: s, log: log}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err
}

func (h *TransactionHandler) Restock(c *fiber.Ctx) error {
	var req service.StockRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	result, err := h.service.RestockInventory(c.UserContext(), &req, currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "inventory restocked", result)
}

func (h *TransactionHandler) Sell(c *fiber.Ctx) error {
	var req service.StockRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	result, err := h.service.Sell(c.UserContext(), &req, currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "sale recorded", result)
}

func (h *TransactionHandler) ReturnToSupplier(c *fiber.Ctx) error {
	var req service.StockRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	result, err := h.service.ReturnToSupplier(c.UserContext(), &req, currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "return to supplier recorded", result)
}

type updateStatusRequest struct {
	Status model.TransactionStatus `json:"status"`
}

func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid transaction id", nil)
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid JSON body", nil)
	}

	transaction, err := h.service.UpdateTransactionStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "transaction status updated", transaction)
}

// GetTransactions lists the ledger newest first. Query params: page
// (zero-based), size, search.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 0)
	search := c.Query("search")

	result, err := h.service.GetAllTransactions(c.UserContext(), page, size, search)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "transactions fetched", result)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid transaction id", nil)
	}

	transaction, err := h.service.GetTransactionByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "transaction fetched", transaction)
}

// GetTransactionsByMonth answers the calendar-month window query. Query
// params: month (1-12), year (4-digit).
func (h *TransactionHandler) GetTransactionsByMonth(c *fiber.Ctx) error {
	month := c.QueryInt("month", 0)
	year := c.QueryInt("year", 0)

	transactions, err := h.service.GetAllTransactionByMonthAndYear(c.UserContext(), month, year)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "transactions fetched", transactions)
}
