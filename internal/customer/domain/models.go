package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer holds the materialized points balance. TotalPoints is mutated only
// through the points service, always together with a ledger row.
type Customer struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	Phone        string        `gorm:"not null" json:"phone"`
	TotalPoints  int           `gorm:"not null;default:0" json:"total_points"`
	ReferredByID *snowflake.ID `gorm:"index" json:"referred_by_id,omitempty"`
	// FirstOrderCompletedAt is set exactly once, on the customer's first
	// completed order. It gates the referral bonus so retried completion
	// events cannot double-award.
	FirstOrderCompletedAt *time.Time `json:"first_order_completed_at,omitempty"`
	CreatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

var (
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrSelfReferral     = errors.New("self_referral")
)
