package enums

import "fmt"

// CheckoutState identifies the wizard step a checkout session is on.
type CheckoutState string

const (
	CheckoutStateLoading      CheckoutState = "loading"
	CheckoutStateEmptyCart    CheckoutState = "empty_cart"
	CheckoutStateAddress      CheckoutState = "address"
	CheckoutStatePayment      CheckoutState = "payment"
	CheckoutStateReview       CheckoutState = "review"
	CheckoutStateConfirmation CheckoutState = "confirmation"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateLoading,
	CheckoutStateEmptyCart,
	CheckoutStateAddress,
	CheckoutStatePayment,
	CheckoutStateReview,
	CheckoutStateConfirmation,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateConfirmation
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
