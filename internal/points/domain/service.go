package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service owns every mutation of a customer's points balance. Mutations are
// conditional atomic updates (decrement iff the balance covers it) paired
// with a ledger row in the same database transaction.
type Service interface {
	// Redeem debits pointsUsed from the customer inside tx and appends a
	// redeemed ledger row. Fails with ErrInsufficientPoints when the balance
	// precondition does not hold; no clamping happens at this layer.
	Redeem(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID snowflake.ID, pointsUsed int) error

	// AwardOnCompletion credits the earned points for a completed order,
	// exactly once, and triggers the referral bonus if this is the
	// customer's first completed order.
	AwardOnCompletion(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID snowflake.ID, earned int) error

	// RefundOnCancellation returns the order's redeemed points to the
	// customer with an adjustment ledger row.
	RefundOnCancellation(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID snowflake.ID, pointsUsed int) error

	// Adjust applies a signed manual adjustment (admin operation).
	Adjust(ctx context.Context, customerID snowflake.ID, points int, reason string) (Transaction, error)

	// RecordUsage appends the order's usage record for settlement.
	RecordUsage(ctx context.Context, tx *gorm.DB, orderID, storeID, periodID snowflake.ID, pointsUsed int, monetaryValue float64) (UsageRecord, error)

	// UsageRecordsForPeriod lists the usage ledger consumed by settlement.
	UsageRecordsForPeriod(ctx context.Context, periodID snowflake.ID) ([]UsageRecord, error)
}
