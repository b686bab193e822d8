package checkout

import (
	"testing"

	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/money"
	"github.com/stretchr/testify/assert"
)

func testPricer() Pricer {
	return NewPricer(config.PricingConfig{FreeShippingThreshold: 999, FlatShippingFee: 49})
}

func cartOf(prices ...float64) *gateway.CartSnapshot {
	cart := &gateway.CartSnapshot{}
	for i, price := range prices {
		cart.Lines = append(cart.Lines, gateway.CartLine{
			ProductID: string(rune('a' + i)),
			UnitPrice: money.FromRupees(price),
			Quantity:  1,
		})
	}
	return cart
}

func TestQuoteEmptyCartOwesNothing(t *testing.T) {
	t.Parallel()

	quote := testPricer().Quote(&gateway.CartSnapshot{})
	assert.True(t, quote.Subtotal.IsZero())
	assert.True(t, quote.ShippingCharge.IsZero())
	assert.True(t, quote.Total.IsZero())
}

func TestQuoteUnderThresholdAddsFlatFee(t *testing.T) {
	t.Parallel()

	quote := testPricer().Quote(cartOf(450))
	assert.True(t, quote.Subtotal.Equal(money.FromRupees(450)))
	assert.True(t, quote.ShippingCharge.Equal(money.FromRupees(49)))
	assert.True(t, quote.Total.Equal(money.FromRupees(499)))
}

func TestQuoteExactlyAtThresholdShipsFree(t *testing.T) {
	t.Parallel()

	quote := testPricer().Quote(cartOf(500, 499))
	assert.True(t, quote.Subtotal.Equal(money.FromRupees(999)))
	assert.True(t, quote.ShippingCharge.IsZero())
	assert.True(t, quote.Total.Equal(money.FromRupees(999)))
}

func TestQuoteMultipliesQuantity(t *testing.T) {
	t.Parallel()

	cart := &gateway.CartSnapshot{Lines: []gateway.CartLine{
		{UnitPrice: money.FromRupees(249.50), Quantity: 2},
		{UnitPrice: money.FromRupees(100), Quantity: 3},
	}}
	quote := testPricer().Quote(cart)
	assert.True(t, quote.Subtotal.Equal(money.FromRupees(799)), quote.Subtotal.String())
	assert.True(t, quote.Total.Equal(money.FromRupees(848)))
}
