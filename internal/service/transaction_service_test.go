package service

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRestockInventory(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	result, err := f.engine.RestockInventory(ctx, &StockRequest{
		ProductID:   f.product.ID,
		SupplierID:  &f.supplier.ID,
		Quantity:    25,
		Description: "weekly delivery",
	}, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 35, result.Product.StockQuantity)

	trx := result.Transaction
	assert.NotEmpty(t, trx.Key)
	assert.Equal(t, model.TypeRestock, trx.Type)
	assert.Equal(t, model.StatusCompleted, trx.Status)
	assert.Equal(t, 25, trx.TotalProducts)
	assert.Equal(t, int64(12500), trx.TotalPrice)
	require.NotNil(t, trx.SupplierID)
	assert.Equal(t, f.supplier.ID, *trx.SupplierID)

	assert.Equal(t, 35, f.reloadProduct(t).StockQuantity)
	assert.Equal(t, int64(1), f.ledgerCount(t))
}

// Product with stock 10 at price 500: selling 4 leaves 6 and records a 2000
// ledger row; selling 10 more fails with insufficient stock and leaves 6.
func TestSellScenario(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	result, err := f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 4}, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Product.StockQuantity)
	assert.Equal(t, model.TypeSale, result.Transaction.Type)
	assert.Equal(t, 4, result.Transaction.TotalProducts)
	assert.Equal(t, int64(2000), result.Transaction.TotalPrice)
	assert.Nil(t, result.Transaction.SupplierID)

	_, err = f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 10}, f.user.ID)
	assert.True(t, apperr.IsInsufficientStock(err))

	assert.Equal(t, 6, f.reloadProduct(t).StockQuantity)
	assert.Equal(t, int64(1), f.ledgerCount(t), "failed sale must not leave a ledger row")
}

func TestSellIgnoresSupplier(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)

	result, err := f.engine.Sell(context.Background(), &StockRequest{
		ProductID:  f.product.ID,
		SupplierID: &f.supplier.ID,
		Quantity:   1,
	}, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Transaction.SupplierID)
}

func TestReturnToSupplier(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)

	result, err := f.engine.ReturnToSupplier(context.Background(), &StockRequest{
		ProductID:   f.product.ID,
		SupplierID:  &f.supplier.ID,
		Quantity:    3,
		Description: "damaged batch",
	}, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Product.StockQuantity)
	assert.Equal(t, model.TypeReturnToSupplier, result.Transaction.Type)
	require.NotNil(t, result.Transaction.SupplierID)

	_, err = f.engine.ReturnToSupplier(context.Background(), &StockRequest{
		ProductID:  f.product.ID,
		SupplierID: &f.supplier.ID,
		Quantity:   8,
	}, f.user.ID)
	assert.True(t, apperr.IsInsufficientStock(err))
	assert.Equal(t, 7, f.reloadProduct(t).StockQuantity)
}

func TestReturnRequiresSupplier(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)

	_, err := f.engine.ReturnToSupplier(context.Background(), &StockRequest{
		ProductID: f.product.ID,
		Quantity:  2,
	}, f.user.ID)
	assert.True(t, apperr.IsValidation(err))
}

func TestRestockMissingReferences(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	// no supplier given
	_, err := f.engine.RestockInventory(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 5}, f.user.ID)
	assert.True(t, apperr.IsValidation(err))

	// unknown supplier
	unknown := uint(999)
	_, err = f.engine.RestockInventory(ctx, &StockRequest{ProductID: f.product.ID, SupplierID: &unknown, Quantity: 5}, f.user.ID)
	assert.True(t, apperr.IsNotFound(err))

	// unknown product
	_, err = f.engine.RestockInventory(ctx, &StockRequest{ProductID: 999, SupplierID: &f.supplier.ID, Quantity: 5}, f.user.ID)
	assert.True(t, apperr.IsNotFound(err))

	// unknown user
	_, err = f.engine.RestockInventory(ctx, &StockRequest{ProductID: f.product.ID, SupplierID: &f.supplier.ID, Quantity: 5}, 999)
	assert.True(t, apperr.IsNotFound(err))

	assert.Equal(t, 10, f.reloadProduct(t).StockQuantity)
	assert.Zero(t, f.ledgerCount(t))
}

func TestNonPositiveQuantity(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	for _, quantity := range []int{0, -5} {
		_, err := f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: quantity}, f.user.ID)
		assert.True(t, apperr.IsValidation(err), "quantity %d", quantity)
	}
}

// Restock followed by a sale of the same quantity returns stock to its
// pre-restock value.
func TestRestockSellRoundTrip(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	_, err := f.engine.RestockInventory(ctx, &StockRequest{ProductID: f.product.ID, SupplierID: &f.supplier.ID, Quantity: 15}, f.user.ID)
	require.NoError(t, err)

	_, err = f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 15}, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, f.reloadProduct(t).StockQuantity)
	assert.Equal(t, int64(2), f.ledgerCount(t))
}

func TestPendingInitialStatusLifecycle(t *testing.T) {
	f := newEngineFixture(t, model.StatusPending, 10, 500)
	ctx := context.Background()

	result, err := f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 2}, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, result.Transaction.Status)
	// stock applies at creation even while the row is pending
	assert.Equal(t, 8, f.reloadProduct(t).StockQuantity)

	updated, err := f.engine.UpdateTransactionStatus(ctx, result.Transaction.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)

	// status change is accounting only, stock stays put
	assert.Equal(t, 8, f.reloadProduct(t).StockQuantity)

	// repeating the same terminal target fails the second time
	_, err = f.engine.UpdateTransactionStatus(ctx, result.Transaction.ID, model.StatusCompleted)
	assert.True(t, apperr.IsInvalidStateTransition(err))

	_, err = f.engine.UpdateTransactionStatus(ctx, result.Transaction.ID, model.StatusCancelled)
	assert.True(t, apperr.IsInvalidStateTransition(err))
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	_, err := f.engine.UpdateTransactionStatus(ctx, 999, model.StatusCancelled)
	assert.True(t, apperr.IsNotFound(err))

	result, err := f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 1}, f.user.ID)
	require.NoError(t, err)

	_, err = f.engine.UpdateTransactionStatus(ctx, result.Transaction.ID, model.TransactionStatus("SHIPPED"))
	assert.True(t, apperr.IsValidation(err))

	// default initial status is terminal, nothing may move it
	_, err = f.engine.UpdateTransactionStatus(ctx, result.Transaction.ID, model.StatusCancelled)
	assert.True(t, apperr.IsInvalidStateTransition(err))
}

// Concurrent sells whose combined quantity exceeds stock: exactly enough
// succeed to drain stock to zero, the rest fail with insufficient stock, and
// no update is lost. Callers retry transient version conflicts the way a
// request handler would.
func TestConcurrentSells(t *testing.T) {
	const (
		initialStock = 10
		sellers      = 20
	)
	f := newEngineFixture(t, model.StatusCompleted, initialStock, 500)
	ctx := context.Background()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)

	for i := 0; i < sellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := f.engine.Sell(ctx, &StockRequest{ProductID: f.product.ID, Quantity: 1}, f.user.ID)
				if apperr.IsConcurrencyConflict(err) {
					continue
				}
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case apperr.IsInsufficientStock(err):
					insufficient++
				default:
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initialStock, succeeded)
	assert.Equal(t, sellers-initialStock, insufficient)

	product := f.reloadProduct(t)
	assert.Zero(t, product.StockQuantity)
	assert.Equal(t, int64(initialStock), f.ledgerCount(t), "one ledger row per successful sale")
}

// conflictingProductRepo loses every compare-and-swap to simulate a
// permanently contended product.
type conflictingProductRepo struct {
	repository.ProductRepository
	attempts int
}

func (r *conflictingProductRepo) ApplyStockDelta(tx *gorm.DB, id uint, delta, expectedVersion int) (bool, error) {
	r.attempts++
	return false, nil
}

func TestConflictRetriesExhausted(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)

	conflicting := &conflictingProductRepo{ProductRepository: f.productRepo}
	engine := NewTransactionService(f.db, conflicting, f.txRepo, f.supplierRepo, f.userRepo, nil, zap.NewNop(), model.StatusCompleted)

	_, err := engine.Sell(context.Background(), &StockRequest{ProductID: f.product.ID, Quantity: 1}, f.user.ID)
	assert.True(t, apperr.IsConcurrencyConflict(err))
	assert.Equal(t, stockRetryAttempts, conflicting.attempts)

	// the rolled-back attempts must leave neither a ledger row nor a delta
	assert.Zero(t, f.ledgerCount(t))
	assert.Equal(t, 10, f.reloadProduct(t).StockQuantity)
}

// failingTxRepo breaks the ledger insert so the surrounding database
// transaction has to roll the stock delta back.
type failingTxRepo struct {
	repository.TransactionRepository
}

func (r *failingTxRepo) Insert(tx *gorm.DB, transaction *model.Transaction) error {
	return assert.AnError
}

func TestLedgerInsertFailureRollsBackStock(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)

	engine := NewTransactionService(f.db, f.productRepo, &failingTxRepo{f.txRepo}, f.supplierRepo, f.userRepo, nil, zap.NewNop(), model.StatusCompleted)

	_, err := engine.Sell(context.Background(), &StockRequest{ProductID: f.product.ID, Quantity: 3}, f.user.ID)
	require.Error(t, err)

	product := f.reloadProduct(t)
	assert.Equal(t, 10, product.StockQuantity, "stock delta must roll back with the failed insert")
	assert.Equal(t, 1, product.Version)
	assert.Zero(t, f.ledgerCount(t))
}

func TestGetAllTransactionsValidation(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	_, err := f.engine.GetAllTransactions(ctx, -1, 10, "")
	assert.True(t, apperr.IsValidation(err))

	page, err := f.engine.GetAllTransactions(ctx, 0, 5, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
}

func TestGetAllTransactionByMonthAndYear(t *testing.T) {
	f := newEngineFixture(t, model.StatusCompleted, 10, 500)
	ctx := context.Background()

	_, err := f.engine.GetAllTransactionByMonthAndYear(ctx, 13, 2024)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.engine.GetAllTransactionByMonthAndYear(ctx, 0, 2024)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.engine.GetAllTransactionByMonthAndYear(ctx, 6, 24)
	assert.True(t, apperr.IsValidation(err))

	// an empty month is an empty result, not an error
	items, err := f.engine.GetAllTransactionByMonthAndYear(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Empty(t, items)
}
