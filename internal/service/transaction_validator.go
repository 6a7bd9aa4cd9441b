package service

import (
	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
)

// ValidateOperation checks the preconditions of a stock operation against a
// product snapshot. Pure: it never mutates state.
//
//   - RESTOCK: quantity > 0, supplier required, no upper bound.
//   - SALE: quantity > 0, quantity <= available stock, supplier ignored.
//   - RETURN_TO_SUPPLIER: quantity > 0, quantity <= available stock (the
//     return physically removes stock), supplier required.
func ValidateOperation(opType model.TransactionType, product *model.Product, quantity int, hasSupplier bool) error {
	if quantity <= 0 {
		return apperr.Validationf("quantity must be greater than zero, got %d", quantity)
	}

	switch opType {
	case model.TypeRestock:
		if !hasSupplier {
			return apperr.Validationf("supplier is required for a restock")
		}
	case model.TypeSale:
		if quantity > product.StockQuantity {
			return &apperr.InsufficientStockError{Requested: quantity, Available: product.StockQuantity}
		}
	case model.TypeReturnToSupplier:
		if !hasSupplier {
			return apperr.Validationf("supplier is required for a return to supplier")
		}
		if quantity > product.StockQuantity {
			return &apperr.InsufficientStockError{Requested: quantity, Available: product.StockQuantity}
		}
	default:
		return apperr.Validationf("unknown transaction type %q", opType)
	}

	return nil
}
