package checkout

import (
	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/money"
)

// Quote is the derived pricing shown on the review step.
type Quote struct {
	Subtotal       money.Amount `json:"subtotal"`
	ShippingCharge money.Amount `json:"shipping_charge"`
	Total          money.Amount `json:"total"`
}

// Pricer derives order totals from the immutable cart snapshot.
type Pricer struct {
	freeShippingThreshold money.Amount
	flatShippingFee       money.Amount
}

// NewPricer builds a pricer from the configured shipping policy.
func NewPricer(cfg config.PricingConfig) Pricer {
	return Pricer{
		freeShippingThreshold: money.FromRupees(cfg.FreeShippingThreshold),
		flatShippingFee:       money.FromRupees(cfg.FlatShippingFee),
	}
}

// Quote computes subtotal, shipping and total. Shipping is free at or above
// the threshold; an empty cart ships nothing and owes nothing.
func (p Pricer) Quote(cart *gateway.CartSnapshot) Quote {
	if cart == nil || cart.Empty() {
		return Quote{Subtotal: money.Zero(), ShippingCharge: money.Zero(), Total: money.Zero()}
	}
	subtotal := cart.Subtotal()
	shipping := p.flatShippingFee
	if subtotal.GreaterThanOrEqual(p.freeShippingThreshold) {
		shipping = money.Zero()
	}
	return Quote{
		Subtotal:       subtotal,
		ShippingCharge: shipping,
		Total:          subtotal.Add(shipping),
	}
}
