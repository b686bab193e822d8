package razorpay

import (
	"strings"

	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/enums"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
)

// CheckoutOptions is the configuration handed to the browser widget. Field
// names follow the widget's constructor contract.
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Prefill seeds the widget's contact form.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Theme colors the widget chrome.
type Theme struct {
	Color string `json:"color"`
}

// Contact carries the prefill details pulled from the shipping address and
// shopper profile.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Bridge builds widget configurations and models the widget's terminal
// callbacks. It holds no per-payment state; exactly-once resolution is the
// orchestrator's job.
type Bridge struct {
	cfg config.RazorpayConfig
}

// NewBridge wires the merchant configuration.
func NewBridge(cfg config.RazorpayConfig) *Bridge {
	return &Bridge{cfg: cfg}
}

// Enabled reports whether online payment can be offered at all.
func (b *Bridge) Enabled() bool {
	return b != nil && b.cfg.Enabled()
}

// CheckoutOptions builds the widget payload for a placed order. It fails
// closed when the widget cannot be opened: no merchant key and no key on the
// handle means the shopper must not be sent into a broken payment screen.
func (b *Bridge) CheckoutOptions(handle *gateway.GatewayHandle, orderNumber string, contact Contact) (*CheckoutOptions, error) {
	if handle == nil {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "storefront returned no payment session for an online order")
	}
	key := strings.TrimSpace(handle.KeyID)
	if key == "" {
		key = strings.TrimSpace(b.cfg.KeyID)
	}
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "online payment unavailable: no merchant key configured")
	}
	if handle.OrderID == "" || handle.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "payment session is missing order id or amount")
	}

	currency := handle.Currency
	if currency == "" {
		currency = b.cfg.Currency
	}

	return &CheckoutOptions{
		Key:         key,
		Amount:      handle.Amount,
		Currency:    currency,
		OrderID:     handle.OrderID,
		Name:        b.cfg.MerchantName,
		Description: "Order " + orderNumber,
		Prefill: Prefill{
			Name:    contact.Name,
			Email:   contact.Email,
			Contact: contact.Phone,
		},
		Theme: Theme{Color: b.cfg.ThemeColor},
	}, nil
}

// Resolution is the single terminal outcome of one widget invocation.
type Resolution struct {
	Kind enums.PaymentResolution
	// Signature triple, set only for completed payments.
	Completed *gateway.VerifyPaymentInput
	// Widget-reported failure description, set only for failed payments.
	FailureDescription string
}

// Completed builds the success resolution carrying the signature triple.
func Completed(orderID, paymentID, signature string) Resolution {
	return Resolution{
		Kind: enums.PaymentResolutionCompleted,
		Completed: &gateway.VerifyPaymentInput{
			RazorpayOrderID:   orderID,
			RazorpayPaymentID: paymentID,
			RazorpaySignature: signature,
		},
	}
}

// Failed builds the widget-reported failure resolution.
func Failed(description string) Resolution {
	return Resolution{
		Kind:               enums.PaymentResolutionFailed,
		FailureDescription: description,
	}
}

// Dismissed builds the modal-dismiss resolution.
func Dismissed() Resolution {
	return Resolution{Kind: enums.PaymentResolutionDismissed}
}

// Validate checks the resolution is internally consistent.
func (r Resolution) Validate() error {
	if !r.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment resolution")
	}
	if r.Kind == enums.PaymentResolutionCompleted {
		if r.Completed == nil ||
			r.Completed.RazorpayOrderID == "" ||
			r.Completed.RazorpayPaymentID == "" ||
			r.Completed.RazorpaySignature == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "completed payment requires the full signature triple")
		}
	}
	return nil
}
