package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PeriodStatus tracks the settlement lifecycle of a weekly period.
type PeriodStatus string

const (
	PeriodActive  PeriodStatus = "active"
	PeriodClosed  PeriodStatus = "closed"
	PeriodSettled PeriodStatus = "settled"
)

// WeeklyPeriod is a Saturday–Friday week used to batch orders for payout
// reconciliation. Exactly one period is active at any time; orders are
// stamped with the active period's id at creation.
type WeeklyPeriod struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Year       int          `gorm:"not null;uniqueIndex:ux_weekly_periods_week,priority:1" json:"year"`
	WeekNumber int          `gorm:"not null;uniqueIndex:ux_weekly_periods_week,priority:2" json:"week_number"`
	StartDate  time.Time    `gorm:"not null" json:"start_date"`
	EndDate    time.Time    `gorm:"not null" json:"end_date"`
	Status     PeriodStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (WeeklyPeriod) TableName() string { return "weekly_periods" }

// SettlementStatus tracks payout progress on a settlement row. Payout
// confirmation itself happens outside this engine.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementPaid    SettlementStatus = "paid"
)

// ShopSettlement is one row per (shop, period), created only at period close.
// PointsDiscounts carries a positive sign in NetAmount: the platform paying
// the store back for discounts it absorbed during the week.
type ShopSettlement struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	ShopID           snowflake.ID     `gorm:"not null;index;uniqueIndex:ux_shop_settlements_period,priority:1" json:"shop_id"`
	PeriodID         snowflake.ID     `gorm:"not null;index;uniqueIndex:ux_shop_settlements_period,priority:2" json:"period_id"`
	BatchID          string           `gorm:"not null" json:"batch_id"`
	OrdersCompleted  int              `gorm:"not null" json:"orders_completed"`
	OrdersCancelled  int              `gorm:"not null" json:"orders_cancelled"`
	GrossSales       float64          `gorm:"not null" json:"gross_sales"`
	TotalCommission  float64          `gorm:"not null" json:"total_commission"`
	PointsDiscounts  float64          `gorm:"not null" json:"points_discounts_credited"`
	FreeDeliveryCost float64          `gorm:"not null" json:"free_delivery_cost"`
	AdsCost          float64          `gorm:"not null" json:"ads_cost"`
	NetAmount        float64          `gorm:"not null" json:"net_amount"`
	Status           SettlementStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt        time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ShopSettlement) TableName() string { return "shop_settlements" }

// RiderSettlement is one row per (rider, period) with at least one completed
// delivery.
type RiderSettlement struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	RiderID          snowflake.ID     `gorm:"not null;index;uniqueIndex:ux_rider_settlements_period,priority:1" json:"rider_id"`
	PeriodID         snowflake.ID     `gorm:"not null;index;uniqueIndex:ux_rider_settlements_period,priority:2" json:"period_id"`
	BatchID          string           `gorm:"not null" json:"batch_id"`
	TotalDeliveries  int              `gorm:"not null" json:"total_deliveries"`
	TotalEarnings    float64          `gorm:"not null" json:"total_earnings"`
	TotalCashHandled float64          `gorm:"not null" json:"total_cash_handled"`
	Status           SettlementStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt        time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (RiderSettlement) TableName() string { return "rider_settlements" }

// AdminSummary aggregates the platform's view of a closed period. Personal
// commission appears here and nowhere else.
type AdminSummary struct {
	PeriodID                snowflake.ID `json:"period_id"`
	TotalCommissions        float64      `json:"total_commissions"`
	PointsCost              float64      `json:"points_cost"`
	FreeDeliveryCost        float64      `json:"free_delivery_cost"`
	AdsRevenue              float64      `json:"ads_revenue"`
	NetRevenue              float64      `json:"net_revenue"`
	PersonalCommissionTotal float64      `json:"personal_commission_total"`
	OrdersCompleted         int          `json:"orders_completed"`
	OrdersCancelled         int          `json:"orders_cancelled"`
}

var (
	ErrNoActivePeriod   = errors.New("no_active_period")
	ErrPeriodNotActive  = errors.New("period_not_active")
	ErrPeriodNotFound   = errors.New("period_not_found")
	ErrSettlementExists = errors.New("settlement_already_exists")
)
