package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/pkg/enums"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/types"
)

// PendingPayment holds the widget session between order placement and the
// terminal widget callback. While it is set, the submission is still in
// flight (`Placing` stays true) and the session may not move anywhere but
// confirmation.
type PendingPayment struct {
	Handle      gateway.GatewayHandle `json:"handle"`
	OrderID     string                `json:"order_id"`
	OrderNumber string                `json:"order_number"`
}

// OrderOutcome is the immutable record shown on the confirmation step.
// PaymentVerified is false whenever an online payment was not positively
// confirmed, even though the order itself exists server-side.
type OrderOutcome struct {
	OrderID         string              `json:"order_id"`
	OrderNumber     string              `json:"order_number"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	PaymentVerified bool                `json:"payment_verified"`
}

// Session is one shopper's trip through the checkout wizard. All mutation
// goes through the transition methods below, which reject anything the state
// machine disallows.
type Session struct {
	ID            uuid.UUID             `json:"id"`
	State         enums.CheckoutState   `json:"state"`
	Cart          *gateway.CartSnapshot `json:"cart,omitempty"`
	Address       types.ShippingAddress `json:"address"`
	Email         string                `json:"email,omitempty"`
	PaymentMethod enums.PaymentMethod   `json:"payment_method,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Placing       bool                  `json:"placing"`
	Pending       *PendingPayment       `json:"pending,omitempty"`
	Outcome       *OrderOutcome         `json:"outcome,omitempty"`
	LastError     string                `json:"last_error,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewSession opens a session in the loading pseudo-state.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		State:     enums.CheckoutStateLoading,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginLoaded leaves the loading state once cart and profile have both
// settled. An empty cart substitutes the empty-cart pseudo-state for the
// address step.
func (s *Session) BeginLoaded(cart *gateway.CartSnapshot, profile *gateway.Profile) error {
	if s.State != enums.CheckoutStateLoading {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "session already loaded")
	}
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cart snapshot required")
	}
	s.Cart = cart
	if profile != nil {
		s.Address = profile.SeedAddress()
		s.Email = profile.Email
	}
	if cart.Empty() {
		s.State = enums.CheckoutStateEmptyCart
	} else {
		s.State = enums.CheckoutStateAddress
	}
	s.touch()
	return nil
}

// SetAddress replaces the shipping address. Only legal on the address step.
func (s *Session) SetAddress(addr types.ShippingAddress) error {
	if s.State != enums.CheckoutStateAddress {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "address can only change on the address step").
			WithDetails(map[string]any{"state": s.State.String()})
	}
	s.Address = addr
	s.touch()
	return nil
}

// SelectPaymentMethod records the payment method. Only legal on the payment
// step.
func (s *Session) SelectPaymentMethod(method enums.PaymentMethod) error {
	if s.State != enums.CheckoutStatePayment {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment method can only change on the payment step").
			WithDetails(map[string]any{"state": s.State.String()})
	}
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	s.PaymentMethod = method
	s.touch()
	return nil
}

// Advance moves one step forward, enforcing the step's gate.
func (s *Session) Advance() error {
	switch s.State {
	case enums.CheckoutStateAddress:
		if missing := s.Address.MissingFields(); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").
				WithDetails(map[string]any{"missing": missing})
		}
		s.State = enums.CheckoutStatePayment
	case enums.CheckoutStatePayment:
		if !s.PaymentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "select a payment method first")
		}
		s.State = enums.CheckoutStateReview
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot advance from this step").
			WithDetails(map[string]any{"state": s.State.String()})
	}
	s.touch()
	return nil
}

// Back moves one step backward. Confirmation is terminal and loading,
// empty-cart and address have nothing behind them.
func (s *Session) Back() error {
	if s.Placing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submission in progress")
	}
	switch s.State {
	case enums.CheckoutStateReview:
		s.State = enums.CheckoutStatePayment
	case enums.CheckoutStatePayment:
		s.State = enums.CheckoutStateAddress
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot go back from this step").
			WithDetails(map[string]any{"state": s.State.String()})
	}
	s.touch()
	return nil
}

// BeginPlacing guards and marks the single submission transition. The draft
// may only be submitted from review with a complete address and a chosen
// payment method, and never while a prior submission is in flight.
func (s *Session) BeginPlacing(notes string) error {
	if s.State != enums.CheckoutStateReview {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "orders are submitted from the review step").
			WithDetails(map[string]any{"state": s.State.String()})
	}
	if s.Placing {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}
	if !s.Address.Complete() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").
			WithDetails(map[string]any{"missing": s.Address.MissingFields()})
	}
	if !s.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a payment method first")
	}
	s.Notes = notes
	s.Placing = true
	s.LastError = ""
	s.touch()
	return nil
}

// FailPlacing records a submission failure and re-enables submit. The only
// retry point in the workflow: the shopper may resubmit manually.
func (s *Session) FailPlacing(message string) {
	s.Placing = false
	s.LastError = message
	s.touch()
}

// ConfirmWithoutPayment finishes a cash-on-delivery submission: no widget,
// nothing left to verify.
func (s *Session) ConfirmWithoutPayment(result *gateway.PlacementResult) error {
	if !s.Placing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no submission in flight")
	}
	s.Outcome = &OrderOutcome{
		OrderID:         result.OrderID,
		OrderNumber:     result.OrderNumber,
		PaymentMethod:   s.PaymentMethod,
		PaymentVerified: true,
	}
	s.State = enums.CheckoutStateConfirmation
	s.Placing = false
	s.Pending = nil
	s.touch()
	return nil
}

// AwaitPayment parks the submission until the widget reports a terminal
// callback. Placing stays true: only the callback clears it.
func (s *Session) AwaitPayment(result *gateway.PlacementResult) error {
	if !s.Placing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no submission in flight")
	}
	if result.Razorpay == nil {
		return pkgerrors.New(pkgerrors.CodeGateway, "placement result carries no payment session")
	}
	s.Pending = &PendingPayment{
		Handle:      *result.Razorpay,
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
	}
	s.touch()
	return nil
}

// AwaitingPayment reports whether a widget callback is the only move left.
func (s *Session) AwaitingPayment() bool {
	return s.Placing && s.Pending != nil
}

// CompletePayment applies the single terminal widget callback. A second
// callback, or a callback with no payment in flight, is rejected — this is
// what makes the resolution exactly-once.
func (s *Session) CompletePayment(verified bool, message string) error {
	if !s.AwaitingPayment() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment awaiting resolution")
	}
	s.Outcome = &OrderOutcome{
		OrderID:         s.Pending.OrderID,
		OrderNumber:     s.Pending.OrderNumber,
		PaymentMethod:   s.PaymentMethod,
		PaymentVerified: verified,
	}
	s.State = enums.CheckoutStateConfirmation
	s.Placing = false
	s.Pending = nil
	s.LastError = message
	s.touch()
	return nil
}

// Clone returns an independent copy safe to hand across the repository
// boundary.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	if s.Cart != nil {
		cart := gateway.CartSnapshot{Lines: append([]gateway.CartLine(nil), s.Cart.Lines...)}
		copied.Cart = &cart
	}
	if s.Pending != nil {
		pending := *s.Pending
		copied.Pending = &pending
	}
	if s.Outcome != nil {
		outcome := *s.Outcome
		copied.Outcome = &outcome
	}
	return &copied
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
