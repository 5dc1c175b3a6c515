package config

// PricingConfig carries the platform-wide financial defaults. All monetary
// values are EGP.
type PricingConfig struct {
	// DefaultCommissionRate is the fraction of the subtotal owed by a shop
	// when the shop record carries no rate of its own.
	DefaultCommissionRate float64
	// DefaultDeliveryFee applies when no rider is assigned yet.
	DefaultDeliveryFee float64
	// PointsEarnStep: one point earned per this many EGP of subtotal.
	// Orders below one full step earn nothing.
	PointsEarnStep float64
	// PointValue is the EGP value of a single redeemed point.
	PointValue float64
	// ReferralBonusPoints is awarded to the referrer on the referred
	// customer's first completed order.
	ReferralBonusPoints int
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DefaultCommissionRate: 0.10,
		DefaultDeliveryFee:    10,
		PointsEarnStep:        100,
		PointValue:            1.0,
		ReferralBonusPoints:   2,
	}
}

// LoadPricing reads pricing overrides from the environment, falling back to
// the platform defaults.
func LoadPricing() PricingConfig {
	defaults := DefaultPricingConfig()
	return PricingConfig{
		DefaultCommissionRate: getenvFloat("PRICING_COMMISSION_RATE", defaults.DefaultCommissionRate),
		DefaultDeliveryFee:    getenvFloat("PRICING_DELIVERY_FEE", defaults.DefaultDeliveryFee),
		PointsEarnStep:        getenvFloat("PRICING_POINTS_EARN_STEP", defaults.PointsEarnStep),
		PointValue:            getenvFloat("PRICING_POINT_VALUE", defaults.PointValue),
		ReferralBonusPoints:   getenvInt("PRICING_REFERRAL_BONUS_POINTS", defaults.ReferralBonusPoints),
	}
}
