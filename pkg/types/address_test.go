package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullAddress() ShippingAddress {
	return ShippingAddress{
		FullName:   "Ravi Sharma",
		Phone:      "9876543210",
		Address:    "14 MG Road",
		City:       "Pune",
		State:      "Maharashtra",
		PostalCode: "411001",
	}
}

func TestCompleteAddress(t *testing.T) {
	t.Parallel()

	addr := fullAddress()
	assert.True(t, addr.Complete())
	assert.Empty(t, addr.MissingFields())

	// Landmark stays optional.
	addr.Landmark = ""
	assert.True(t, addr.Complete())
}

func TestMissingFieldsReportedIndividually(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*ShippingAddress)
		want   string
	}{
		{"full name", func(a *ShippingAddress) { a.FullName = "" }, "full_name"},
		{"phone", func(a *ShippingAddress) { a.Phone = "  " }, "phone"},
		{"address", func(a *ShippingAddress) { a.Address = "" }, "address"},
		{"city", func(a *ShippingAddress) { a.City = "" }, "city"},
		{"state", func(a *ShippingAddress) { a.State = "" }, "state"},
		{"postal code", func(a *ShippingAddress) { a.PostalCode = "" }, "postal_code"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			addr := fullAddress()
			tc.mutate(&addr)
			assert.False(t, addr.Complete())
			assert.Equal(t, []string{tc.want}, addr.MissingFields())
		})
	}
}
