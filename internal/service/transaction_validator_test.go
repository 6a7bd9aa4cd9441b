package service

import (
	"testing"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateOperation(t *testing.T) {
	product := model.NewProduct("Sea Salt Crisps", "SNK-001", 220, 10)

	tests := []struct {
		name        string
		opType      model.TransactionType
		quantity    int
		hasSupplier bool
		check       func(t *testing.T, err error)
	}{
		{
			name: "restock ok", opType: model.TypeRestock, quantity: 5, hasSupplier: true,
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "restock has no upper bound", opType: model.TypeRestock, quantity: 1_000_000, hasSupplier: true,
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "restock without supplier", opType: model.TypeRestock, quantity: 5, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsValidation(err)) },
		},
		{
			name: "zero quantity", opType: model.TypeRestock, quantity: 0, hasSupplier: true,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsValidation(err)) },
		},
		{
			name: "negative quantity", opType: model.TypeSale, quantity: -3, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsValidation(err)) },
		},
		{
			name: "sale within stock", opType: model.TypeSale, quantity: 10, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "sale exceeding stock", opType: model.TypeSale, quantity: 11, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsInsufficientStock(err)) },
		},
		{
			name: "return ok", opType: model.TypeReturnToSupplier, quantity: 10, hasSupplier: true,
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "return without supplier", opType: model.TypeReturnToSupplier, quantity: 2, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsValidation(err)) },
		},
		{
			name: "return exceeding stock", opType: model.TypeReturnToSupplier, quantity: 11, hasSupplier: true,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsInsufficientStock(err)) },
		},
		{
			name: "unknown type", opType: model.TransactionType("AUDIT"), quantity: 1, hasSupplier: false,
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsValidation(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *product
			err := ValidateOperation(tt.opType, product, tt.quantity, tt.hasSupplier)
			tt.check(t, err)
			assert.Equal(t, before, *product, "validator must not mutate the snapshot")
		})
	}
}
