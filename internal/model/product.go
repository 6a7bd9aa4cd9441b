package model

import "time"

// Product is the stock-carrying side of the ledger. StockQuantity is never
// negative and changes only through the transaction engine's delta path or a
// direct product edit. Version is the optimistic lock used by that path.
type Product struct {
	Base
	Name          string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU           string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Price         int64      `gorm:"not null" json:"price" validate:"gt=0"` // minor units
	StockQuantity int        `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	Version       int        `gorm:"not null;default:1" json:"-"`
	Description   string     `gorm:"type:text" json:"description"`
	ImageURL      string     `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	CategoryID    *uint      `gorm:"index" json:"category_id,omitempty"`
	Category      *Category  `json:"category,omitempty" validate:"-"`
}

// NewProduct builds an unsaved product with its public key assigned.
func NewProduct(name, sku string, price int64, stock int) *Product {
	return &Product{
		Base:          NewBase(),
		Name:          name,
		SKU:           sku,
		Price:         price,
		StockQuantity: stock,
		Version:       1,
	}
}
