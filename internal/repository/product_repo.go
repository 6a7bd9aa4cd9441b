package repository

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	// ApplyStockDelta performs the compare-and-swap stock mutation inside the
	// caller's transaction. It succeeds only when the product still carries
	// expectedVersion and the delta keeps stock non-negative; a false return
	// means the caller must re-read and retry.
	ApplyStockDelta(tx *gorm.DB, id uint, delta, expectedVersion int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product")
	}
	return &product, err
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product")
	}
	return &product, err
}

// Update writes the product-master fields only; stock_quantity and version
// are owned by ApplyStockDelta and never touched here.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("name", "sku", "price", "description", "image_url", "expiry_date", "category_id").
		Updates(product).Error
}

func (r *productRepo) ApplyStockDelta(tx *gorm.DB, id uint, delta, expectedVersion int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND version = ? AND stock_quantity + ? >= 0", id, expectedVersion, delta).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
