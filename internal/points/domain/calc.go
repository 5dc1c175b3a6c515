package domain

import (
	"fmt"
	"math"

	"github.com/bwmarrin/snowflake"
	"github.com/waselhq/wasel/pkg/money"
)

// EarnedPoints returns the loyalty points earned for an order subtotal: one
// point per full earnStep of the original subtotal, zero below one step.
// Earning is unaffected by any discount applied to the order.
func EarnedPoints(subtotal, earnStep float64) int {
	if earnStep <= 0 || subtotal < earnStep {
		return 0
	}
	return int(math.Floor(subtotal / earnStep))
}

// MaxRedeemable caps redemption at the platform commission available to
// absorb the discount: min(availablePoints, floor(platformCommission)),
// floored at zero.
func MaxRedeemable(platformCommission float64, availablePoints int) int {
	if availablePoints < 0 {
		availablePoints = 0
	}
	ceiling := int(math.Floor(platformCommission))
	if ceiling < 0 {
		ceiling = 0
	}
	return money.MinInt(availablePoints, ceiling)
}

// Redemption is the outcome of applying points to an order total.
type Redemption struct {
	PointsUsed     int     `json:"points_used"`
	DiscountAmount float64 `json:"discount_amount"`
	OriginalTotal  float64 `json:"original_total"`
	NewTotal       float64 `json:"new_total"`
	// StoreCommissionCredit is the amount the platform owes the store for
	// the absorbed discount, accrued for weekly settlement rather than paid
	// immediately.
	StoreCommissionCredit float64 `json:"store_commission_credit"`
	HasDiscount           bool    `json:"has_discount"`
}

// ApplyPoints clamps the requested points to what the balance, the
// redemption cap and the order total allow, and prices the discount at
// pointValue EGP per point.
func ApplyPoints(orderTotal float64, pointsToUse, availablePoints, maxRedeemable int, pointValue float64) Redemption {
	limit := money.MinInt(availablePoints, maxRedeemable)
	limit = money.MinInt(limit, int(math.Floor(orderTotal)))
	used := money.ClampInt(pointsToUse, 0, limit)

	discount := float64(used) * pointValue
	newTotal := money.NonNegative(orderTotal - discount)

	return Redemption{
		PointsUsed:            used,
		DiscountAmount:        discount,
		OriginalTotal:         orderTotal,
		NewTotal:              newTotal,
		StoreCommissionCredit: discount,
		HasDiscount:           used > 0,
	}
}

// RedemptionValidation is the strict counterpart of ApplyPoints: instead of
// clamping it explains why a request is rejected.
type RedemptionValidation struct {
	Valid         bool    `json:"valid"`
	Message       string  `json:"message,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty"`
}

// ValidateRedemption rejects exactly the requests ApplyPoints would have
// clamped: non-positive amounts, amounts above the balance, and amounts whose
// discount exceeds the platform commission.
func ValidateRedemption(pointsToUse, availablePoints int, platformCommission, pointValue float64) RedemptionValidation {
	if pointsToUse <= 0 {
		return RedemptionValidation{Message: "points to use must be positive"}
	}
	if pointsToUse > availablePoints {
		return RedemptionValidation{Message: fmt.Sprintf("insufficient points, available: %d", availablePoints)}
	}
	discount := float64(pointsToUse) * pointValue
	if discount > platformCommission {
		return RedemptionValidation{Message: fmt.Sprintf("maximum redeemable is %d points", int(math.Floor(platformCommission)))}
	}
	return RedemptionValidation{Valid: true, DiscountValue: discount}
}

// StoreWeeklyPointsCredit sums the monetary value owed to a store across a
// period's usage records.
func StoreWeeklyPointsCredit(records []UsageRecord, storeID snowflake.ID) float64 {
	var sum float64
	for _, r := range records {
		if r.StoreID == storeID {
			sum += r.MonetaryValue
		}
	}
	return sum
}
