package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

const earnStep = 100.0

func TestEarnedPoints(t *testing.T) {
	cases := []struct {
		subtotal float64
		want     int
	}{
		{-50, 0},
		{0, 0},
		{80, 0},
		{99.99, 0},
		{100, 1},
		{199.99, 1},
		{300, 3},
		{500, 5},
		{1250.75, 12},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EarnedPoints(tc.subtotal, earnStep), "subtotal=%v", tc.subtotal)
	}
}

func TestEarnedPointsNeverNegative(t *testing.T) {
	for _, s := range []float64{-1000, -0.01, 0, 42, 1e6} {
		assert.GreaterOrEqual(t, EarnedPoints(s, earnStep), 0)
	}
}

func TestMaxRedeemable(t *testing.T) {
	assert.Equal(t, 20, MaxRedeemable(30, 20))
	assert.Equal(t, 30, MaxRedeemable(30, 50))
	assert.Equal(t, 30, MaxRedeemable(30.9, 50))
	assert.Equal(t, 0, MaxRedeemable(-5, 50))
	assert.Equal(t, 0, MaxRedeemable(30, -1))
	assert.Equal(t, 0, MaxRedeemable(0, 10))
}

func TestApplyPointsClamping(t *testing.T) {
	// requested more than the cap allows
	r := ApplyPoints(310, 50, 40, 30, 1.0)
	assert.Equal(t, 30, r.PointsUsed)
	assert.Equal(t, 30.0, r.DiscountAmount)
	assert.Equal(t, 310.0, r.OriginalTotal)
	assert.Equal(t, 280.0, r.NewTotal)
	assert.Equal(t, 30.0, r.StoreCommissionCredit)
	assert.True(t, r.HasDiscount)

	// requested more than the balance holds
	r = ApplyPoints(310, 50, 10, 30, 1.0)
	assert.Equal(t, 10, r.PointsUsed)

	// negative request clamps to zero
	r = ApplyPoints(310, -5, 10, 30, 1.0)
	assert.Equal(t, 0, r.PointsUsed)
	assert.False(t, r.HasDiscount)
	assert.Equal(t, 310.0, r.NewTotal)

	// order total floors the redemption
	r = ApplyPoints(7.5, 50, 50, 50, 1.0)
	assert.Equal(t, 7, r.PointsUsed)
	assert.Equal(t, 0.5, r.NewTotal)
}

func TestApplyPointsCapInvariant(t *testing.T) {
	for _, toUse := range []int{0, 1, 15, 40, 500} {
		for _, available := range []int{0, 10, 35} {
			for _, maxRedeem := range []int{0, 20, 100} {
				r := ApplyPoints(400, toUse, available, maxRedeem, 1.0)
				assert.LessOrEqual(t, r.PointsUsed, available)
				assert.LessOrEqual(t, r.PointsUsed, maxRedeem)
				assert.GreaterOrEqual(t, r.PointsUsed, 0)
				assert.GreaterOrEqual(t, r.NewTotal, 0.0)
			}
		}
	}
}

func TestValidateRedemption(t *testing.T) {
	v := ValidateRedemption(0, 50, 30, 1.0)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "positive")

	v = ValidateRedemption(-3, 50, 30, 1.0)
	assert.False(t, v.Valid)

	v = ValidateRedemption(60, 50, 30, 1.0)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "available: 50")

	v = ValidateRedemption(40, 50, 30, 1.0)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Message, "maximum redeemable is 30")

	v = ValidateRedemption(25, 50, 30, 1.0)
	assert.True(t, v.Valid)
	assert.Equal(t, 25.0, v.DiscountValue)
}

// A request accepted by ValidateRedemption is never clamped by ApplyPoints,
// and a rejected one always is (beyond the order-total floor).
func TestValidateMatchesApply(t *testing.T) {
	const commission = 30.0
	for toUse := -5; toUse <= 60; toUse += 5 {
		for _, available := range []int{0, 20, 50} {
			v := ValidateRedemption(toUse, available, commission, 1.0)
			r := ApplyPoints(1000, toUse, available, MaxRedeemable(commission, available), 1.0)
			if v.Valid {
				assert.Equal(t, toUse, r.PointsUsed, "toUse=%d available=%d", toUse, available)
			} else if toUse <= 0 {
				assert.Equal(t, 0, r.PointsUsed, "toUse=%d available=%d", toUse, available)
			} else {
				assert.Less(t, r.PointsUsed, toUse, "toUse=%d available=%d", toUse, available)
			}
		}
	}
}

func TestStoreWeeklyPointsCredit(t *testing.T) {
	storeA := snowflake.ID(1)
	storeB := snowflake.ID(2)
	records := []UsageRecord{
		{StoreID: storeA, MonetaryValue: 10},
		{StoreID: storeB, MonetaryValue: 7},
		{StoreID: storeA, MonetaryValue: 25},
	}
	assert.Equal(t, 35.0, StoreWeeklyPointsCredit(records, storeA))
	assert.Equal(t, 7.0, StoreWeeklyPointsCredit(records, storeB))
	assert.Equal(t, 0.0, StoreWeeklyPointsCredit(records, snowflake.ID(3)))
	assert.Equal(t, 0.0, StoreWeeklyPointsCredit(nil, storeA))
}
