package model

type TransactionType string

const (
	TypeRestock          TransactionType = "RESTOCK"
	TypeSale             TransactionType = "SALE"
	TypeReturnToSupplier TransactionType = "RETURN_TO_SUPPLIER"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// Terminal reports whether no further status transition is permitted.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo implements the status machine: PENDING may advance to
// COMPLETED or CANCELLED, both of which are terminal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == StatusPending && next.Terminal()
}

// Transaction is one ledger row. Type, product reference, quantity and price
// snapshot are immutable after creation; only Status and UpdatedAt may change.
// Rows are never deleted.
type Transaction struct {
	Base
	TotalProducts int               `gorm:"not null" json:"total_products"`
	TotalPrice    int64             `gorm:"not null" json:"total_price"` // unit price snapshot * quantity
	Type          TransactionType   `gorm:"type:varchar(20);not null;index" json:"transaction_type"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	Description   string            `gorm:"type:text" json:"description"`

	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
	SupplierID *uint     `gorm:"index" json:"supplier_id,omitempty"` // nil for sales
	Supplier   *Supplier `json:"supplier,omitempty"`
}

// NewTransaction is the engine's factory for ledger rows. The price snapshot
// is taken from the product at creation time.
func NewTransaction(t TransactionType, status TransactionStatus, product *Product, quantity int, userID uint, supplierID *uint, description string) *Transaction {
	return &Transaction{
		Base:          NewBase(),
		TotalProducts: quantity,
		TotalPrice:    product.Price * int64(quantity),
		Type:          t,
		Status:        status,
		Description:   description,
		UserID:        userID,
		ProductID:     product.ID,
		SupplierID:    supplierID,
	}
}
