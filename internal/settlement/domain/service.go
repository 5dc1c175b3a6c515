package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CloseResult is the outcome of closing a period: the settlement rows plus
// the admin summary, and the freshly opened successor period.
type CloseResult struct {
	Period           WeeklyPeriod      `json:"period"`
	NextPeriod       WeeklyPeriod      `json:"next_period"`
	AdminSummary     AdminSummary      `json:"admin_summary"`
	ShopSettlements  []ShopSettlement  `json:"shop_settlements"`
	RiderSettlements []RiderSettlement `json:"rider_settlements"`
}

type Service interface {
	// ActivePeriod returns the single active period, creating the current
	// Saturday–Friday week when none exists yet.
	ActivePeriod(ctx context.Context) (WeeklyPeriod, error)

	// ClosePeriod settles the given period: per-shop and per-rider rows over
	// completed orders, the admin summary, then marks the period closed and
	// opens the contiguous successor. Re-closing an already closed period
	// fails with ErrPeriodNotActive; settlement rows are additionally
	// guarded by (entity, period) unique indexes.
	ClosePeriod(ctx context.Context, periodID snowflake.ID) (CloseResult, error)
}

// WeekStart returns the Saturday 00:00 UTC opening the settlement week that
// contains t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	// Saturday is day zero of the settlement week
	offset := (int(t.Weekday()) - int(time.Saturday) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekEnd returns the Friday closing a settlement week that starts at start.
// The end date is inclusive; the successor period starts one day later.
func WeekEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, 6)
}
