package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.User{},
		&model.Product{},
		&model.Transaction{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// engineFixture wires a real engine against an in-memory database.
type engineFixture struct {
	db       *gorm.DB
	engine   TransactionService
	user     *model.User
	supplier *model.Supplier
	product  *model.Product

	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	supplierRepo repository.SupplierRepository
	userRepo     repository.UserRepository
}

func newEngineFixture(t *testing.T, initialStatus model.TransactionStatus, stock int, price int64) *engineFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	f := &engineFixture{
		db:           db,
		productRepo:  repository.NewProductRepo(db),
		txRepo:       repository.NewTransactionRepo(db),
		supplierRepo: repository.NewSupplierRepo(db),
		userRepo:     repository.NewUserRepo(db),
	}

	f.user = model.NewUser("Test Manager", "manager@example.com", "", model.RoleManager)
	require.NoError(t, f.user.SetPassword("secret123"))
	require.NoError(t, f.userRepo.Create(ctx, f.user))

	f.supplier = &model.Supplier{Base: model.NewBase(), Name: "Acme Wholesale"}
	require.NoError(t, f.supplierRepo.Create(ctx, f.supplier))

	f.product = model.NewProduct("Cold Brew Coffee", "BEV-002", price, stock)
	require.NoError(t, f.productRepo.Create(ctx, f.product))

	f.engine = NewTransactionService(db, f.productRepo, f.txRepo, f.supplierRepo, f.userRepo, nil, zap.NewNop(), initialStatus)
	return f
}

func (f *engineFixture) reloadProduct(t *testing.T) *model.Product {
	t.Helper()
	product, err := f.productRepo.FindByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return product
}

func (f *engineFixture) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Transaction{}).Count(&count).Error)
	return count
}
