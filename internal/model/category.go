package model

// Category groups products; referenced only, managed outside the core.
type Category struct {
	Base
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
}
