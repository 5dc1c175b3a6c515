package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Shop is a store selling through the platform. CommissionRate is the
// fraction of the subtotal owed to the platform on every order.
type Shop struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	CommissionRate float64      `gorm:"not null;default:0.10" json:"commission_rate"`
	MinOrderAmount float64      `gorm:"not null;default:0" json:"min_order_amount"`
	IsOpen         bool         `gorm:"not null;default:true" json:"is_open"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Shop) TableName() string { return "shops" }

type Product struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ShopID      snowflake.ID `gorm:"not null;index" json:"shop_id"`
	Name        string       `gorm:"not null" json:"name"`
	Price       float64      `gorm:"not null" json:"price"`
	IsAvailable bool         `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// AdSpend records advertising charged to a shop within a settlement period.
// Consumed by settlement aggregation as adsCost.
type AdSpend struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ShopID    snowflake.ID `gorm:"not null;index" json:"shop_id"`
	PeriodID  snowflake.ID `gorm:"not null;index" json:"period_id"`
	Amount    float64      `gorm:"not null" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AdSpend) TableName() string { return "ad_spends" }

var (
	ErrShopClosed       = errors.New("shop_closed")
	ErrShopNotFound     = errors.New("shop_not_found")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrInvalidAdAmount  = errors.New("invalid_ad_amount")
	ErrInvalidShopID    = errors.New("invalid_shop_id")
	ErrProductNotInShop = errors.New("product_not_in_shop")
)
