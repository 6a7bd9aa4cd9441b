package service

import (
	"context"

	"go-inventory-ledger/internal/model"
)

// TypeSummary aggregates quantity and value for one transaction type.
type TypeSummary struct {
	TransactionType  model.TransactionType `json:"transaction_type"`
	TransactionCount int                   `json:"transaction_count"`
	TotalProducts    int                   `json:"total_products"`
	TotalPrice       int64                 `json:"total_price"`
}

// MonthlySummary is the per-type rollup of one calendar month.
type MonthlySummary struct {
	Month             int           `json:"month"`
	Year              int           `json:"year"`
	TotalTransactions int           `json:"total_transactions"`
	Summaries         []TypeSummary `json:"summaries"`
}

// Summarize derives per-type totals from a set of transactions. Pure and
// stateless; every type appears in the result, in a fixed order, even with a
// zero count.
func Summarize(transactions []model.Transaction) []TypeSummary {
	order := []model.TransactionType{model.TypeRestock, model.TypeSale, model.TypeReturnToSupplier}

	byType := make(map[model.TransactionType]*TypeSummary, len(order))
	summaries := make([]TypeSummary, len(order))
	for i, t := range order {
		summaries[i] = TypeSummary{TransactionType: t}
		byType[t] = &summaries[i]
	}

	for _, transaction := range transactions {
		summary, ok := byType[transaction.Type]
		if !ok {
			continue
		}
		summary.TransactionCount++
		summary.TotalProducts += transaction.TotalProducts
		summary.TotalPrice += transaction.TotalPrice
	}

	return summaries
}

// ReportService exposes the monthly rollup over the ledger.
type ReportService interface {
	GetMonthlySummary(ctx context.Context, month, year int) (*MonthlySummary, error)
}

type reportService struct {
	txService TransactionService
}

func NewReportService(txService TransactionService) ReportService {
	return &reportService{txService: txService}
}

func (s *reportService) GetMonthlySummary(ctx context.Context, month, year int) (*MonthlySummary, error) {
	transactions, err := s.txService.GetAllTransactionByMonthAndYear(ctx, month, year)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Month:             month,
		Year:              year,
		TotalTransactions: len(transactions),
		Summaries:         Summarize(transactions),
	}, nil
}
