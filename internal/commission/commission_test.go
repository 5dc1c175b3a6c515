package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/waselhq/wasel/pkg/money"
)

func TestPaidDeliveryWithPoints(t *testing.T) {
	// subtotal=300, fee=10, 10 points redeemed, 10% rate
	shopComm := ShopCommission(300, 0.10)
	assert.Equal(t, 30.0, shopComm)

	freeDel := FreeDeliveryCost(false, 10)
	assert.Equal(t, 0.0, freeDel)

	assert.Equal(t, 20.0, PlatformCommission(shopComm, 10, freeDel))
	assert.Equal(t, 300.0, CustomerTotal(300, 10, false, 10))
	assert.Equal(t, 270.0, ShopEarnings(300, shopComm))
	assert.Equal(t, 10.0, RiderEarnings(10))
}

func TestFreeDeliveryWithPoints(t *testing.T) {
	// subtotal=500, free delivery, 20 points redeemed, 10% rate
	shopComm := ShopCommission(500, 0.10)
	assert.Equal(t, 50.0, shopComm)

	freeDel := FreeDeliveryCost(true, 10)
	assert.Equal(t, 10.0, freeDel)

	assert.Equal(t, 20.0, PlatformCommission(shopComm, 20, freeDel))
	assert.Equal(t, 480.0, CustomerTotal(500, 10, true, 20))
	// rider still gets the flat fee even though the customer paid nothing
	// for delivery
	assert.Equal(t, 10.0, RiderEarnings(10))
}

func TestSmallOrderNoPoints(t *testing.T) {
	shopComm := ShopCommission(80, 0.10)
	assert.Equal(t, 8.0, shopComm)
	assert.Equal(t, 8.0, PlatformCommission(shopComm, 0, 0))
	assert.Equal(t, 90.0, CustomerTotal(80, 10, false, 0))
}

func TestPlatformCommissionNeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, PlatformCommission(10, 50, 20))
	assert.Equal(t, 0.0, PlatformCommission(0, 0, 10))
	assert.Equal(t, 0.0, PlatformCommission(5, 5, 0))
}

func TestShopAndRiderEarningsIgnorePointsUsed(t *testing.T) {
	shopComm := ShopCommission(300, 0.10)
	for _, pointsDiscount := range []float64{0, 5, 10, 30} {
		assert.Equal(t, 270.0, ShopEarnings(300, shopComm), "pointsDiscount=%v", pointsDiscount)
		assert.Equal(t, 10.0, RiderEarnings(10), "pointsDiscount=%v", pointsDiscount)
	}
}

func TestCustomerTotalNeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, CustomerTotal(5, 0, true, 20))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 12.35, money.Round2(ShopCommission(123.45, 0.10)))
}
