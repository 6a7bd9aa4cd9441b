package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// TransactionPage is one page of ledger rows, newest first.
type TransactionPage struct {
	Items      []model.Transaction `json:"items"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
}

type TransactionRepository interface {
	// Insert appends a ledger row inside the caller's transaction so it
	// commits or rolls back together with its stock mutation.
	Insert(tx *gorm.DB, transaction *model.Transaction) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	// UpdateStatus transitions a row from one status to another and reports
	// how many rows matched; zero means the row changed underneath the caller.
	UpdateStatus(ctx context.Context, id uint, from, to model.TransactionStatus) (int64, error)
	// FindPage lists ledger rows newest first. A non-empty searchText matches
	// case-insensitively against product name, supplier name and description.
	FindPage(ctx context.Context, page, size int, searchText string) (*TransactionPage, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Insert(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("User").
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction")
	}
	return &transaction, err
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id uint, from, to model.TransactionStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *transactionRepo) FindPage(ctx context.Context, page, size int, searchText string) (*TransactionPage, error) {
	base := r.db.WithContext(ctx).Model(&model.Transaction{})

	if searchText != "" {
		// LOWER/LIKE keeps the match portable across postgres and sqlite.
		pattern := "%" + strings.ToLower(searchText) + "%"
		base = base.
			Joins("LEFT JOIN products ON products.id = transactions.product_id").
			Joins("LEFT JOIN suppliers ON suppliers.id = transactions.supplier_id").
			Where(
				"LOWER(products.name) LIKE ? OR LOWER(suppliers.name) LIKE ? OR LOWER(transactions.description) LIKE ?",
				pattern, pattern, pattern,
			)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]model.Transaction, 0, size)
	err := base.Session(&gorm.Session{}).
		Preload("Product").Preload("Supplier").Preload("User").
		Order("transactions.created_at DESC, transactions.id DESC").
		Limit(size).Offset(page * size).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &TransactionPage{Items: items, TotalCount: total, Page: page, Size: size}, nil
}

func (r *transactionRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	items := make([]model.Transaction, 0)
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("User").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}
