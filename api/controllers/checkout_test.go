package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutsvc "github.com/partspoint/checkout-backend/internal/checkout"
	"github.com/partspoint/checkout-backend/internal/gateway"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/money"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"missing", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/checkout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			token, err := bearerToken(req)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestNewSessionResponseMapsCartAndQuote(t *testing.T) {
	t.Parallel()

	session := checkoutsvc.NewSession()
	err := session.BeginLoaded(&gateway.CartSnapshot{
		Lines: []gateway.CartLine{
			{ProductID: "brake-pad-01", Name: "Brake Pad Set", UnitPrice: money.FromRupees(450), Quantity: 2},
		},
	}, nil)
	require.NoError(t, err)

	quote := checkoutsvc.Quote{
		Subtotal:       money.FromRupees(900),
		ShippingCharge: money.FromRupees(49),
		Total:          money.FromRupees(949),
	}

	resp := newSessionResponse(session, quote, nil)
	assert.Equal(t, session.ID, resp.SessionID)
	assert.Equal(t, "address", resp.State)
	require.NotNil(t, resp.Cart)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, "450.00", resp.Cart.Items[0].UnitPrice)
	assert.Equal(t, "900.00", resp.Cart.Items[0].LineTotal)
	assert.Equal(t, "49.00", resp.Quote.ShippingCharge)
	assert.Equal(t, "949.00", resp.Quote.Total)
	assert.Nil(t, resp.Outcome)
}

func TestNewSessionResponseNilSession(t *testing.T) {
	t.Parallel()

	resp := newSessionResponse(nil, checkoutsvc.Quote{}, nil)
	assert.Empty(t, resp.SessionID)
}
