package model

// Supplier is a read-only reference for restocks and returns; its master-data
// lifecycle lives outside the core.
type Supplier struct {
	Base
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address string `gorm:"type:text" json:"address"`
}
