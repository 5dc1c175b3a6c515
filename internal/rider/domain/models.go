package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Rider is paid a flat fee per delivery, regardless of promotions on the
// order.
type Rider struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	DeliveryFee float64      `gorm:"not null;default:10" json:"delivery_fee"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Rider) TableName() string { return "riders" }

var (
	ErrRiderNotFound = errors.New("rider_not_found")
)
