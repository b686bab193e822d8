package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/partspoint/checkout-backend/internal/checkout"
	"github.com/partspoint/checkout-backend/internal/payments/razorpay"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/enums"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/logger"
	pkgredis "github.com/partspoint/checkout-backend/pkg/redis"
	"github.com/partspoint/checkout-backend/pkg/types"
)

type stubCheckoutService struct {
	startFn   func(ctx context.Context, token string) (*checkoutsvc.Session, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*checkoutsvc.Session, error)
	submitFn  func(ctx context.Context, id uuid.UUID, token, notes string) (*checkoutsvc.SubmitResult, error)
	resolveFn func(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*checkoutsvc.Session, error)
}

func (s *stubCheckoutService) Start(ctx context.Context, token string) (*checkoutsvc.Session, error) {
	if s.startFn != nil {
		return s.startFn(ctx, token)
	}
	return checkoutsvc.NewSession(), nil
}

func (s *stubCheckoutService) Get(ctx context.Context, id uuid.UUID) (*checkoutsvc.Session, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
}

func (s *stubCheckoutService) UpdateAddress(ctx context.Context, id uuid.UUID, addr types.ShippingAddress) (*checkoutsvc.Session, error) {
	session := checkoutsvc.NewSession()
	session.Address = addr
	return session, nil
}

func (s *stubCheckoutService) SelectPaymentMethod(ctx context.Context, id uuid.UUID, method enums.PaymentMethod) (*checkoutsvc.Session, error) {
	session := checkoutsvc.NewSession()
	session.PaymentMethod = method
	return session, nil
}

func (s *stubCheckoutService) Advance(ctx context.Context, id uuid.UUID) (*checkoutsvc.Session, error) {
	return checkoutsvc.NewSession(), nil
}

func (s *stubCheckoutService) Back(ctx context.Context, id uuid.UUID) (*checkoutsvc.Session, error) {
	return checkoutsvc.NewSession(), nil
}

func (s *stubCheckoutService) Submit(ctx context.Context, id uuid.UUID, token, notes string) (*checkoutsvc.SubmitResult, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, id, token, notes)
	}
	return &checkoutsvc.SubmitResult{Session: checkoutsvc.NewSession()}, nil
}

func (s *stubCheckoutService) ResolvePayment(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*checkoutsvc.Session, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, id, token, resolution)
	}
	return checkoutsvc.NewSession(), nil
}

func (s *stubCheckoutService) Quote(session *checkoutsvc.Session) checkoutsvc.Quote {
	return checkoutsvc.Quote{}
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(svc checkoutsvc.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(testConfig(), logg, (*pkgredis.Client)(nil), svc, nil)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-PartsPoint-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-PartsPoint-Env"))
	}
}

func TestStartCheckoutRequiresToken(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestStartCheckoutCreatesSession(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer shopper-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var payload struct {
		Data struct {
			SessionID string `json:"session_id"`
			State     string `json:"state"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.SessionID == "" {
		t.Fatalf("expected session id in response")
	}
	if payload.Data.State != "loading" {
		t.Fatalf("expected loading state got %q", payload.Data.State)
	}
}

func TestGetCheckoutRejectsMalformedID(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetCheckoutMissingSession(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestUpdateAddressAcceptsPartialDraft(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	body := `{"full_name":"Asha Rao","city":"Pune"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/checkout/"+uuid.NewString()+"/address", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for partial address got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateAddressRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	body := `{"full_name":"Asha Rao","country":"IN"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/checkout/"+uuid.NewString()+"/address", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestSelectPaymentMethodRejectsUnknownMethod(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	body := `{"payment_method":"upi-wallet"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/checkout/"+uuid.NewString()+"/payment-method", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSubmitReturnsWidgetOptions(t *testing.T) {
	svc := &stubCheckoutService{
		submitFn: func(ctx context.Context, id uuid.UUID, token, notes string) (*checkoutsvc.SubmitResult, error) {
			session := checkoutsvc.NewSession()
			return &checkoutsvc.SubmitResult{
				Session: session,
				Payment: &razorpay.CheckoutOptions{
					Key:     "rzp_test_key",
					Amount:  94900,
					OrderID: "order_rzp_1",
				},
			}, nil
		},
	}
	router := newTestRouter(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+uuid.NewString()+"/submit", strings.NewReader(`{"notes":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer shopper-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Data struct {
			Payment *razorpay.CheckoutOptions `json:"payment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Payment == nil || payload.Data.Payment.OrderID != "order_rzp_1" {
		t.Fatalf("expected widget options in response, got %s", resp.Body.String())
	}
}

func TestPaymentCallbackRequiresSignatureTriple(t *testing.T) {
	router := newTestRouter(&stubCheckoutService{})
	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+uuid.NewString()+"/payment/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer shopper-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPaymentCallbackForwardsResolution(t *testing.T) {
	var got razorpay.Resolution
	svc := &stubCheckoutService{
		resolveFn: func(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*checkoutsvc.Session, error) {
			got = resolution
			return checkoutsvc.NewSession(), nil
		},
	}
	router := newTestRouter(svc)
	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+uuid.NewString()+"/payment/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer shopper-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Kind != enums.PaymentResolutionCompleted {
		t.Fatalf("expected completed resolution got %q", got.Kind)
	}
	if got.Completed == nil || got.Completed.RazorpaySignature != "sig_1" {
		t.Fatalf("expected signature triple forwarded")
	}
}

func TestPaymentDismissNeedsNoBody(t *testing.T) {
	var got razorpay.Resolution
	svc := &stubCheckoutService{
		resolveFn: func(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*checkoutsvc.Session, error) {
			got = resolution
			return checkoutsvc.NewSession(), nil
		},
	}
	router := newTestRouter(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+uuid.NewString()+"/payment/dismiss", nil)
	req.Header.Set("Authorization", "Bearer shopper-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Kind != enums.PaymentResolutionDismissed {
		t.Fatalf("expected dismissed resolution got %q", got.Kind)
	}
}

func TestStateConflictMapsTo422(t *testing.T) {
	svc := &stubCheckoutService{
		getFn: func(ctx context.Context, id uuid.UUID) (*checkoutsvc.Session, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot advance from this step")
		},
	}
	router := newTestRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
