package repository

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// SupplierRepository is the narrow lookup the engine consumes; Create exists
// for seeding and tests, supplier CRUD is not exposed.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindAll(ctx context.Context) ([]model.Supplier, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("supplier")
	}
	return &supplier, err
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}
