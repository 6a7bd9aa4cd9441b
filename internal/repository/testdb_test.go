package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go-inventory-ledger/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps the shared-cache memory database alive and
// serializes access.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
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
