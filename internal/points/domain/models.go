package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TransactionType classifies a points ledger entry.
type TransactionType string

const (
	TransactionEarned     TransactionType = "earned"
	TransactionRedeemed   TransactionType = "redeemed"
	TransactionReferral   TransactionType = "referral"
	TransactionAdjustment TransactionType = "adjustment"
)

// Transaction is an append-only ledger row. Points is signed; BalanceAfter is
// the customer's running balance immediately after applying it. A balance
// never changes without a row here, and never a row without the balance
// change, in the same database transaction.
type Transaction struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID   snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	OrderID      *snowflake.ID   `gorm:"index" json:"order_id,omitempty"`
	Type         TransactionType `gorm:"type:text;not null" json:"type"`
	Points       int             `gorm:"not null" json:"points"`
	BalanceAfter int             `gorm:"not null" json:"balance_after"`
	Reason       string          `gorm:"" json:"reason,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "points_transactions" }

// UsageRecord links an order's redeemed points to the store that must be
// credited for them at settlement. Appended at order creation, never mutated;
// consumed only by settlement aggregation.
type UsageRecord struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID       snowflake.ID `gorm:"not null;uniqueIndex" json:"order_id"`
	StoreID       snowflake.ID `gorm:"not null;index" json:"store_id"`
	PeriodID      snowflake.ID `gorm:"not null;index" json:"period_id"`
	PointsUsed    int          `gorm:"not null" json:"points_used"`
	MonetaryValue float64      `gorm:"not null" json:"monetary_value"`
	UsedAt        time.Time    `gorm:"not null" json:"used_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "points_usage_records" }

var (
	ErrInsufficientPoints = errors.New("insufficient_points")
	ErrInvalidPoints      = errors.New("invalid_points")
	ErrAlreadyAwarded     = errors.New("points_already_awarded")
)
