package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/partspoint/checkout-backend/pkg/config"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/logger"
	"github.com/partspoint/checkout-backend/pkg/money"
)

const (
	cartPath          = "/api/cart"
	profilePath       = "/api/users/profile"
	ordersPath        = "/api/orders"
	verifyPaymentPath = "/api/orders/verify-payment"
)

// Client talks to the storefront backend that owns carts, profiles, orders
// and payment verification.
type Client interface {
	GetCart(ctx context.Context, token string) (*CartSnapshot, error)
	GetProfile(ctx context.Context, token string) (*Profile, error)
	PlaceOrder(ctx context.Context, token string, input PlaceOrderInput) (*PlacementResult, error)
	VerifyPayment(ctx context.Context, token string, input VerifyPaymentInput) error
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type client struct {
	baseURL string
	http    httpDoer
	logg    *logger.Logger
}

// NewClient builds the storefront client. The configured timeout applies to
// every call; zero leaves calls unbounded.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger) (Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gateway base url required")
	}
	return &client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

func moneyFromWire(value float64) money.Amount {
	return money.FromRupees(value)
}

// envelope is the storefront's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *client) GetCart(ctx context.Context, token string) (*CartSnapshot, error) {
	var payload struct {
		Items []struct {
			Product struct {
				ID    string  `json:"_id"`
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"product"`
			Price    float64 `json:"price"`
			Quantity int64   `json:"quantity"`
		} `json:"items"`
	}
	if err := c.call(ctx, http.MethodGet, cartPath, token, nil, &payload); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}

	snapshot := &CartSnapshot{Lines: make([]CartLine, 0, len(payload.Items))}
	for _, item := range payload.Items {
		price := item.Price
		if price == 0 {
			price = item.Product.Price
		}
		snapshot.Lines = append(snapshot.Lines, CartLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: moneyFromWire(price),
			Quantity:  item.Quantity,
		})
	}
	return snapshot, nil
}

func (c *client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.call(ctx, http.MethodGet, profilePath, token, nil, &profile); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch profile")
	}
	return &profile, nil
}

func (c *client) PlaceOrder(ctx context.Context, token string, input PlaceOrderInput) (*PlacementResult, error) {
	var result PlacementResult
	if err := c.call(ctx, http.MethodPost, ordersPath, token, input, &result); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}
	return &result, nil
}

func (c *client) VerifyPayment(ctx context.Context, token string, input VerifyPaymentInput) error {
	if err := c.call(ctx, http.MethodPost, verifyPaymentPath, token, input, nil); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment")
	}
	return nil
}

func (c *client) call(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "storefront rejected credentials")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("storefront returned status %d", resp.StatusCode)
		}
		return pkgerrors.New(pkgerrors.CodeGateway, message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
