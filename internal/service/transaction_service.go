package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stockRetryAttempts bounds the optimistic retry on a version conflict before
// the operation surfaces a ConcurrencyConflictError.
const stockRetryAttempts = 3

// errStockConflict signals a lost compare-and-swap inside the atomic block;
// the engine re-reads the product and retries.
var errStockConflict = errors.New("stock version conflict")

// StockRequest is the shared request shape of the three stock operations.
// SupplierID is required for restocks and returns and ignored for sales.
type StockRequest struct {
	ProductID   uint   `json:"product_id" validate:"required"`
	SupplierID  *uint  `json:"supplier_id"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description"`
}

// TransactionResult carries the updated product and the ledger row created by
// one stock operation.
type TransactionResult struct {
	Product     *model.Product     `json:"product"`
	Transaction *model.Transaction `json:"transaction"`
}

// TransactionService is the transaction engine: it validates and applies
// stock deltas atomically with their ledger insert, owns the status state
// machine and answers the ledger queries.
//
// Pagination is zero-based; out-of-range pages yield an empty page with the
// real total count.
type TransactionService interface {
	RestockInventory(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error)
	Sell(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error)
	ReturnToSupplier(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error)
	UpdateTransactionStatus(ctx context.Context, transactionID uint, status model.TransactionStatus) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context, page, size int, searchText string) (*repository.TransactionPage, error)
	GetTransactionByID(ctx context.Context, id uint) (*model.Transaction, error)
	GetAllTransactionByMonthAndYear(ctx context.Context, month, year int) ([]model.Transaction, error)
}

type transactionService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	txRepo        repository.TransactionRepository
	supplierRepo  repository.SupplierRepository
	userRepo      repository.UserRepository
	hub           *ws.Hub
	log           *zap.Logger
	initialStatus model.TransactionStatus
}

// NewTransactionService wires the engine. initialStatus is the status every
// new ledger row starts in (PENDING or COMPLETED); the stock delta applies at
// creation time either way.
func NewTransactionService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
	log *zap.Logger,
	initialStatus model.TransactionStatus,
) TransactionService {
	if !initialStatus.Valid() || initialStatus == model.StatusCancelled {
		initialStatus = model.StatusCompleted
	}
	return &transactionService{
		db:            db,
		productRepo:   productRepo,
		txRepo:        txRepo,
		supplierRepo:  supplierRepo,
		userRepo:      userRepo,
		hub:           hub,
		log:           log,
		initialStatus: initialStatus,
	}
}

func (s *transactionService) RestockInventory(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error) {
	return s.execute(ctx, model.TypeRestock, req, userID)
}

func (s *transactionService) Sell(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error) {
	return s.execute(ctx, model.TypeSale, req, userID)
}

func (s *transactionService) ReturnToSupplier(ctx context.Context, req *StockRequest, userID uint) (*TransactionResult, error) {
	return s.execute(ctx, model.TypeReturnToSupplier, req, userID)
}

// execute runs one stock operation: resolve references, validate, then apply
// the delta and insert the ledger row in a single database transaction.
// External lookups finish before the atomic block so no locks are held across
// them.
func (s *transactionService) execute(ctx context.Context, opType model.TransactionType, req *StockRequest, userID uint) (*TransactionResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A supplier on a sale is ignored; the stored row carries no supplier.
	var supplier *model.Supplier
	supplierID := req.SupplierID
	if opType == model.TypeSale {
		supplierID = nil
	} else if supplierID != nil {
		supplier, err = s.supplierRepo.FindByID(ctx, *supplierID)
		if err != nil {
			return nil, err
		}
	}

	delta := req.Quantity
	if opType != model.TypeRestock {
		delta = -req.Quantity
	}

	for attempt := 0; attempt < stockRetryAttempts; attempt++ {
		product, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}

		if err := ValidateOperation(opType, product, req.Quantity, supplierID != nil); err != nil {
			return nil, err
		}

		transaction := model.NewTransaction(opType, s.initialStatus, product, req.Quantity, user.ID, supplierID, req.Description)

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			applied, err := s.productRepo.ApplyStockDelta(tx, product.ID, delta, product.Version)
			if err != nil {
				return err
			}
			if !applied {
				return errStockConflict
			}
			return s.txRepo.Insert(tx, transaction)
		})
		if errors.Is(err, errStockConflict) {
			s.log.Debug("stock version conflict, retrying",
				zap.Uint("product_id", product.ID),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}

		product.StockQuantity += delta
		product.Version++

		s.publishStockEvent(opType, product, transaction, user, supplier)

		s.log.Info("stock operation applied",
			zap.String("type", string(opType)),
			zap.Uint("product_id", product.ID),
			zap.Int("quantity", req.Quantity),
			zap.Int("stock_quantity", product.StockQuantity))

		return &TransactionResult{Product: product, Transaction: transaction}, nil
	}

	return nil, &apperr.ConcurrencyConflictError{ProductID: req.ProductID}
}

// UpdateTransactionStatus is the only mutator of status after creation. It is
// an accounting change: the stock delta already applied at creation time and
// is never re-applied or reversed here.
func (s *transactionService) UpdateTransactionStatus(ctx context.Context, transactionID uint, status model.TransactionStatus) (*model.Transaction, error) {
	if !status.Valid() {
		return nil, apperr.Validationf("unknown transaction status %q", status)
	}

	transaction, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !transaction.Status.CanTransitionTo(status) {
		return nil, &apperr.InvalidStateTransitionError{From: string(transaction.Status), To: string(status)}
	}

	// CAS on the previous status catches a concurrent transition between the
	// read above and this write.
	affected, err := s.txRepo.UpdateStatus(ctx, transactionID, transaction.Status, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, err := s.txRepo.FindByID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		return nil, &apperr.InvalidStateTransitionError{From: string(current.Status), To: string(status)}
	}

	transaction.Status = status
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func (s *transactionService) GetAllTransactions(ctx context.Context, page, size int, searchText string) (*repository.TransactionPage, error) {
	if page < 0 {
		return nil, apperr.Validationf("page must not be negative, got %d", page)
	}
	if size <= 0 {
		size = defaultPageSize
	} else if size > maxPageSize {
		size = maxPageSize
	}
	return s.txRepo.FindPage(ctx, page, size, searchText)
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id uint) (*model.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

func (s *transactionService) GetAllTransactionByMonthAndYear(ctx context.Context, month, year int) ([]model.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validationf("month must be between 1 and 12, got %d", month)
	}
	if year < 1000 || year > 9999 {
		return nil, apperr.Validationf("year must be a 4-digit year, got %d", year)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	return s.txRepo.FindByDateRange(ctx, start, end)
}

func (s *transactionService) publishStockEvent(opType model.TransactionType, product *model.Product, transaction *model.Transaction, user *model.User, supplier *model.Supplier) {
	if s.hub == nil {
		return
	}

	var action, verb string
	switch opType {
	case model.TypeRestock:
		action, verb = "restock_applied", "restocked"
	case model.TypeSale:
		action, verb = "sale_applied", "sold"
	case model.TypeReturnToSupplier:
		action, verb = "return_applied", "returned"
	}

	event := ws.StockEvent{
		Action:  action,
		Message: fmt.Sprintf("%s %s %d units of %q", user.Name, verb, transaction.TotalProducts, product.Name),
		Product: map[string]interface{}{
			"id":             product.ID,
			"key":            product.Key,
			"sku":            product.SKU,
			"name":           product.Name,
			"stock_quantity": product.StockQuantity,
		},
		Ledger: map[string]interface{}{
			"key":              transaction.Key,
			"transaction_type": transaction.Type,
			"total_products":   transaction.TotalProducts,
			"total_price":      transaction.TotalPrice,
			"status":           transaction.Status,
		},
		Actor: map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	}
	if supplier != nil {
		event.Message += fmt.Sprintf(" (supplier %s)", supplier.Name)
	}

	s.hub.Publish(event)
}
