package gateway

import (
	"github.com/partspoint/checkout-backend/pkg/enums"
	"github.com/partspoint/checkout-backend/pkg/money"
	"github.com/partspoint/checkout-backend/pkg/types"
)

// CartLine is one priced cart entry as the storefront reports it.
type CartLine struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int64        `json:"quantity"`
}

// CartSnapshot is the cart fetched once at workflow entry. The checkout
// never mutates it.
type CartSnapshot struct {
	Lines []CartLine `json:"lines"`
}

// Subtotal derives the line-sum of the snapshot.
func (c CartSnapshot) Subtotal() money.Amount {
	subtotal := money.Zero()
	for _, line := range c.Lines {
		subtotal = subtotal.Add(money.Line(line.UnitPrice, line.Quantity))
	}
	return subtotal
}

// Empty reports whether the cart has zero lines.
func (c CartSnapshot) Empty() bool {
	return len(c.Lines) == 0
}

// ProfileLocation is the saved delivery location on the shopper profile.
type ProfileLocation struct {
	Address  string `json:"address"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Profile is the shopper profile used to seed the shipping address.
type Profile struct {
	FullName string           `json:"full_name"`
	Phone    string           `json:"phone"`
	Email    string           `json:"email"`
	Location *ProfileLocation `json:"location,omitempty"`
}

// SeedAddress maps profile fields onto a shipping address, leaving blanks
// where the profile has none.
func (p Profile) SeedAddress() types.ShippingAddress {
	addr := types.ShippingAddress{
		FullName: p.FullName,
		Phone:    p.Phone,
	}
	if p.Location != nil {
		addr.Address = p.Location.Address
		addr.Landmark = p.Location.Landmark
		addr.City = p.Location.City
		addr.State = p.Location.State
		addr.PostalCode = p.Location.Pincode
	}
	return addr
}

// PlaceOrderInput is the order submission payload.
type PlaceOrderInput struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	Notes           string                `json:"notes,omitempty"`
}

// GatewayHandle is the Razorpay session descriptor returned for online
// payments. Amount is in paise.
type GatewayHandle struct {
	KeyID    string `json:"key_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"order_id"`
}

// PlacementResult is the storefront's response to a successful submission.
// Razorpay is nil for cash-on-delivery orders.
type PlacementResult struct {
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	Razorpay    *GatewayHandle `json:"razorpay,omitempty"`
}

// VerifyPaymentInput carries the signature triple the widget returns on a
// completed payment.
type VerifyPaymentInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
