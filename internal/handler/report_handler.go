package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
	log     *zap.Logger
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// MonthlySummary rolls the month's ledger up per transaction type. Query
// params: month (1-12), year (4-digit).
func (h *ReportHandler) MonthlySummary(c *fiber.Ctx) error {
	month := c.QueryInt("month", 0)
	year := c.QueryInt("year", 0)

	summary, err := h.service.GetMonthlySummary(c.UserContext(), month, year)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "monthly summary", summary)
}
