// Package personalcommission computes the internal-accounting commission
// recorded alongside each order. It is fully isolated from the customer,
// shop, rider and platform splits: nothing here may feed back into those
// figures or into shop/rider settlements. The totals surface only in the
// admin summary.
package personalcommission

import "github.com/waselhq/wasel/pkg/money"

const (
	storeRate    = 0.05
	deliveryRate = 0.15
)

// Breakdown is the per-order internal commission snapshot.
type Breakdown struct {
	FromStore    float64 `json:"from_store"`
	FromDelivery float64 `json:"from_delivery"`
	Total        float64 `json:"total"`
}

// Calculate derives the internal commission from the order's original
// subtotal and delivery fee.
func Calculate(subtotal, deliveryFee float64, isFreeDelivery bool) Breakdown {
	var fromStore float64
	if subtotal > 0 {
		fromStore = subtotal * storeRate
	}

	var fromDelivery float64
	if !isFreeDelivery {
		fromDelivery = deliveryFee * deliveryRate
	}

	return Breakdown{
		FromStore:    money.Round2(fromStore),
		FromDelivery: money.Round2(fromDelivery),
		Total:        money.Round2(fromStore + fromDelivery),
	}
}
