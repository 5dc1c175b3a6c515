// Package commission splits an order's money among shop, rider, platform and
// customer. All functions are pure; rounding happens at the point of storage,
// not here.
package commission

import "github.com/waselhq/wasel/pkg/money"

// ShopCommission is the fraction of the subtotal owed by the shop to the
// platform.
func ShopCommission(subtotal, rate float64) float64 {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	return subtotal * rate
}

// FreeDeliveryCost is the delivery fee the platform absorbs when the order
// ships free for the customer.
func FreeDeliveryCost(isFreeDelivery bool, deliveryFee float64) float64 {
	if !isFreeDelivery {
		return 0
	}
	return deliveryFee
}

// PlatformCommission is the shop commission net of the points discount and
// the absorbed free-delivery cost, floored at zero. Any shortfall beyond the
// commission is an unrecovered platform cost.
func PlatformCommission(shopCommission, pointsDiscount, freeDeliveryCost float64) float64 {
	return money.NonNegative(shopCommission - pointsDiscount - freeDeliveryCost)
}

// CustomerTotal is what the customer pays in cash at the door.
func CustomerTotal(subtotal, deliveryFee float64, isFreeDelivery bool, pointsDiscount float64) float64 {
	effectiveFee := deliveryFee
	if isFreeDelivery {
		effectiveFee = 0
	}
	return money.NonNegative(subtotal + effectiveFee - pointsDiscount)
}

// ShopEarnings is always computed pre-discount. The points discount never
// reduces this figure; the shop is compensated for it at settlement via the
// weekly commission credit.
func ShopEarnings(subtotal, shopCommission float64) float64 {
	return subtotal - shopCommission
}

// RiderEarnings is the flat delivery fee, immune to points or free-delivery
// promotions on the order.
func RiderEarnings(deliveryFee float64) float64 {
	return deliveryFee
}
