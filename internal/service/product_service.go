package service

import (
	"context"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"go.uber.org/zap"
)

// ProductService covers the product-master operations the engine depends on.
// Stock is deliberately absent from UpdateProduct: after creation it changes
// only through the transaction engine's delta path.
type ProductService interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, id uint, updated *model.Product) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	log          *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, log *zap.Logger) ProductService {
	return &productService{productRepo: productRepo, categoryRepo: categoryRepo, log: log}
}

func (s *productService) CreateProduct(ctx context.Context, product *model.Product) error {
	if existing, err := s.productRepo.FindBySKU(ctx, product.SKU); err == nil && existing != nil {
		return apperr.Validationf("sku %s already exists", product.SKU)
	} else if err != nil && !apperr.IsNotFound(err) {
		return err
	}

	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *product.CategoryID); err != nil {
			return err
		}
	}

	product.Base = model.NewBase()
	if product.Version == 0 {
		product.Version = 1
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.log.Info("product created", zap.String("sku", product.SKU), zap.Uint("id", product.ID))
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, updated *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated.SKU != existing.SKU {
		if other, err := s.productRepo.FindBySKU(ctx, updated.SKU); err == nil && other != nil && other.ID != existing.ID {
			return nil, apperr.Validationf("sku %s already exists", updated.SKU)
		} else if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
	}

	existing.Name = updated.Name
	existing.SKU = updated.SKU
	existing.Price = updated.Price
	existing.Description = updated.Description
	existing.ImageURL = updated.ImageURL
	existing.ExpiryDate = updated.ExpiryDate
	existing.CategoryID = updated.CategoryID

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}
