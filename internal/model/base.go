package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the surrogate ID, the public opaque key and the audit
// timestamps shared by every entity.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase assigns the public key explicitly at construction time. Entities
// are created through factories, not persistence hooks.
func NewBase() Base {
	return Base{Key: uuid.NewString()}
}
