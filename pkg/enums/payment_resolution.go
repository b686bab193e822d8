package enums

import "fmt"

// PaymentResolution is the terminal outcome reported for an online payment
// attempt. Exactly one resolution applies per submission.
type PaymentResolution string

const (
	PaymentResolutionCompleted PaymentResolution = "completed"
	PaymentResolutionFailed    PaymentResolution = "failed"
	PaymentResolutionDismissed PaymentResolution = "dismissed"
)

var validPaymentResolutions = []PaymentResolution{
	PaymentResolutionCompleted,
	PaymentResolutionFailed,
	PaymentResolutionDismissed,
}

// String implements fmt.Stringer.
func (r PaymentResolution) String() string {
	return string(r)
}

// IsValid reports whether the value is a known PaymentResolution.
func (r PaymentResolution) IsValid() bool {
	for _, candidate := range validPaymentResolutions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParsePaymentResolution converts raw input into a PaymentResolution.
func ParsePaymentResolution(value string) (PaymentResolution, error) {
	for _, candidate := range validPaymentResolutions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment resolution %q", value)
}
