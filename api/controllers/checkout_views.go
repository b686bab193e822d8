package controllers

import (
	"time"

	"github.com/google/uuid"

	checkoutsvc "github.com/partspoint/checkout-backend/internal/checkout"
	"github.com/partspoint/checkout-backend/internal/payments/razorpay"
	"github.com/partspoint/checkout-backend/pkg/money"
	"github.com/partspoint/checkout-backend/pkg/types"
)

type sessionResponse struct {
	SessionID       uuid.UUID                 `json:"session_id"`
	State           string                    `json:"state"`
	Cart            *cartView                 `json:"cart,omitempty"`
	Address         types.ShippingAddress     `json:"address"`
	Email           string                    `json:"email,omitempty"`
	PaymentMethod   string                    `json:"payment_method,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	Placing         bool                      `json:"placing"`
	AwaitingPayment bool                      `json:"awaiting_payment"`
	LastError       string                    `json:"last_error,omitempty"`
	Quote           quoteView                 `json:"quote"`
	Payment         *razorpay.CheckoutOptions `json:"payment,omitempty"`
	Outcome         *outcomeView              `json:"outcome,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type cartView struct {
	Items []cartItemView `json:"items"`
}

type cartItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type quoteView struct {
	Subtotal       string `json:"subtotal"`
	ShippingCharge string `json:"shipping_charge"`
	Total          string `json:"total"`
}

type outcomeView struct {
	OrderID         string `json:"order_id"`
	OrderNumber     string `json:"order_number"`
	PaymentMethod   string `json:"payment_method"`
	PaymentVerified bool   `json:"payment_verified"`
}

func newSessionResponse(session *checkoutsvc.Session, quote checkoutsvc.Quote, payment *razorpay.CheckoutOptions) sessionResponse {
	if session == nil {
		return sessionResponse{}
	}

	resp := sessionResponse{
		SessionID:       session.ID,
		State:           session.State.String(),
		Address:         session.Address,
		Email:           session.Email,
		PaymentMethod:   session.PaymentMethod.String(),
		Notes:           session.Notes,
		Placing:         session.Placing,
		AwaitingPayment: session.AwaitingPayment(),
		LastError:       session.LastError,
		Quote: quoteView{
			Subtotal:       money.Rupees(quote.Subtotal),
			ShippingCharge: money.Rupees(quote.ShippingCharge),
			Total:          money.Rupees(quote.Total),
		},
		Payment:   payment,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	if session.Cart != nil {
		items := make([]cartItemView, 0, len(session.Cart.Lines))
		for _, line := range session.Cart.Lines {
			items = append(items, cartItemView{
				ProductID: line.ProductID,
				Name:      line.Name,
				UnitPrice: money.Rupees(line.UnitPrice),
				Quantity:  line.Quantity,
				LineTotal: money.Rupees(money.Line(line.UnitPrice, line.Quantity)),
			})
		}
		resp.Cart = &cartView{Items: items}
	}

	if session.Outcome != nil {
		resp.Outcome = &outcomeView{
			OrderID:         session.Outcome.OrderID,
			OrderNumber:     session.Outcome.OrderNumber,
			PaymentMethod:   session.Outcome.PaymentMethod.String(),
			PaymentVerified: session.Outcome.PaymentVerified,
		}
	}

	return resp
}
