package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waselhq/wasel/internal/personalcommission"
)

// Order carries the financial snapshot frozen at creation time. Only Status
// and PointsEarned change after insert: Status through the transition table,
// PointsEarned exactly once on completion.
type Order struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrderNumber string        `gorm:"not null;uniqueIndex" json:"order_number"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	ShopID      snowflake.ID  `gorm:"not null;index" json:"shop_id"`
	RiderID     *snowflake.ID `gorm:"index" json:"rider_id,omitempty"`
	PeriodID    snowflake.ID  `gorm:"not null;index" json:"period_id"`
	Status      OrderStatus   `gorm:"type:text;not null;default:'pending'" json:"status"`

	Subtotal        float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee     float64 `gorm:"not null" json:"delivery_fee"`
	IsFreeDelivery  bool    `gorm:"not null;default:false" json:"is_free_delivery"`
	PointsUsed      int     `gorm:"not null;default:0" json:"points_used"`
	PointsDiscount  float64 `gorm:"not null;default:0" json:"points_discount"`
	ShopCommission  float64 `gorm:"not null" json:"shop_commission"`
	AdminCommission float64 `gorm:"not null" json:"admin_commission"`
	TotalAmount     float64 `gorm:"not null" json:"total_amount"`
	PointsEarned    int     `gorm:"not null;default:0" json:"points_earned"`

	DeliveryAddress string    `gorm:"not null" json:"delivery_address"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID `gorm:"not null;index" json:"order_id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	Name      string       `gorm:"not null" json:"name"`
	UnitPrice float64      `gorm:"not null" json:"unit_price"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrderItem) TableName() string { return "order_items" }

// PersonalCommission is the internal-accounting record kept alongside an
// order. It never feeds into shop/rider settlements.
type PersonalCommission struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID      snowflake.ID `gorm:"not null;uniqueIndex" json:"order_id"`
	PeriodID     snowflake.ID `gorm:"not null;index" json:"period_id"`
	FromStore    float64      `gorm:"not null" json:"from_store"`
	FromDelivery float64      `gorm:"not null" json:"from_delivery"`
	Total        float64      `gorm:"not null" json:"total"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PersonalCommission) TableName() string { return "personal_commissions" }

func NewPersonalCommission(id, orderID, periodID snowflake.ID, b personalcommission.Breakdown, now time.Time) PersonalCommission {
	return PersonalCommission{
		ID:           id,
		OrderID:      orderID,
		PeriodID:     periodID,
		FromStore:    b.FromStore,
		FromDelivery: b.FromDelivery,
		Total:        b.Total,
		CreatedAt:    now,
	}
}

var (
	ErrOrderNotFound           = errors.New("order_not_found")
	ErrEmptyItems              = errors.New("empty_items")
	ErrInvalidQuantity         = errors.New("invalid_quantity")
	ErrMissingDeliveryAddress  = errors.New("missing_delivery_address")
	ErrMinOrderNotMet          = errors.New("min_order_not_met")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrStatusConflict          = errors.New("status_conflict")
)
