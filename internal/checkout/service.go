package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/internal/payments/razorpay"
	"github.com/partspoint/checkout-backend/pkg/enums"
	pkgerrors "github.com/partspoint/checkout-backend/pkg/errors"
	"github.com/partspoint/checkout-backend/pkg/logger"
	"github.com/partspoint/checkout-backend/pkg/metrics"
	"github.com/partspoint/checkout-backend/pkg/types"
)

const (
	msgPaymentUnresolved = "your order was created but the payment could not be verified; contact support if funds were deducted"
	msgPaymentFailed     = "payment failed; your order was created and is awaiting payment"
	msgPaymentCancelled  = "payment cancelled; your order was created and is awaiting payment"
)

type widgetBuilder interface {
	Enabled() bool
	CheckoutOptions(handle *gateway.GatewayHandle, orderNumber string, contact razorpay.Contact) (*razorpay.CheckoutOptions, error)
}

// SubmitResult is what the submit operation hands back: the updated session,
// and — for online payments — the widget configuration the browser must open.
type SubmitResult struct {
	Session *Session
	Payment *razorpay.CheckoutOptions
}

// Service drives the checkout wizard.
type Service interface {
	Start(ctx context.Context, token string) (*Session, error)
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateAddress(ctx context.Context, id uuid.UUID, addr types.ShippingAddress) (*Session, error)
	SelectPaymentMethod(ctx context.Context, id uuid.UUID, method enums.PaymentMethod) (*Session, error)
	Advance(ctx context.Context, id uuid.UUID) (*Session, error)
	Back(ctx context.Context, id uuid.UUID) (*Session, error)
	Submit(ctx context.Context, id uuid.UUID, token, notes string) (*SubmitResult, error)
	ResolvePayment(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*Session, error)
	Quote(session *Session) Quote
}

type service struct {
	repo    Repository
	gw      gateway.Client
	bridge  widgetBuilder
	pricer  Pricer
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewService builds the checkout orchestrator.
func NewService(
	repo Repository,
	gw gateway.Client,
	bridge widgetBuilder,
	pricer Pricer,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if gw == nil {
		return nil, fmt.Errorf("storefront gateway required")
	}
	if bridge == nil {
		return nil, fmt.Errorf("payment bridge required")
	}
	return &service{
		repo:    repo,
		gw:      gw,
		bridge:  bridge,
		pricer:  pricer,
		logg:    logg,
		metrics: m,
		locks:   map[uuid.UUID]*sync.Mutex{},
	}, nil
}

// Start opens a session: cart and profile are fetched in parallel and the
// wizard leaves loading only after both have settled. Either failure is a
// total failure — the shopper retries by starting over.
func (s *service) Start(ctx context.Context, token string) (*Session, error) {
	var (
		cart       *gateway.CartSnapshot
		profile    *gateway.Profile
		cartErr    error
		profileErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		cart, cartErr = s.gw.GetCart(ctx, token)
		return nil
	})
	g.Go(func() error {
		profile, profileErr = s.gw.GetProfile(ctx, token)
		return nil
	})
	_ = g.Wait()

	if combined := multierr.Combine(cartErr, profileErr); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "load cart and profile")
	}

	session := NewSession()
	if err := session.BeginLoaded(cart, profile); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.IncSessionStarted()
	s.info(ctx, session, "checkout.session_started")
	return session, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.Find(ctx, id)
}

func (s *service) UpdateAddress(ctx context.Context, id uuid.UUID, addr types.ShippingAddress) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.SetAddress(addr)
	})
}

func (s *service) SelectPaymentMethod(ctx context.Context, id uuid.UUID, method enums.PaymentMethod) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.SelectPaymentMethod(method)
	})
}

func (s *service) Advance(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.Advance()
	})
}

func (s *service) Back(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.mutate(ctx, id, func(session *Session) error {
		return session.Back()
	})
}

// Submit places the order. COD confirms immediately; online payments park the
// session until the widget reports back. A storefront rejection keeps the
// session on review with submit re-enabled — the single manual retry point.
func (s *service) Submit(ctx context.Context, id uuid.UUID, token, notes string) (*SubmitResult, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.PaymentMethod == enums.PaymentMethodOnline && !s.bridge.Enabled() {
		// Fail closed before creating an order nobody can pay for.
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "online payment is currently unavailable")
	}

	if err := session.BeginPlacing(notes); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	input := gateway.PlaceOrderInput{
		ShippingAddress: session.Address,
		PaymentMethod:   session.PaymentMethod,
		Notes:           session.Notes,
	}

	start := time.Now()
	result, err := s.gw.PlaceOrder(ctx, token, input)
	s.metrics.ObservePlaceDuration(time.Since(start))
	if err != nil {
		session.FailPlacing(publicMessage(err))
		if saveErr := s.repo.Save(ctx, session); saveErr != nil {
			s.error(ctx, session, "checkout.save_after_place_failure", saveErr)
		}
		return nil, err
	}

	s.metrics.IncOrderPlaced(session.PaymentMethod.String())

	if session.PaymentMethod == enums.PaymentMethodCOD {
		if err := session.ConfirmWithoutPayment(result); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, session); err != nil {
			return nil, err
		}
		s.info(ctx, session, "checkout.order_confirmed")
		return &SubmitResult{Session: session}, nil
	}

	options, err := s.bridge.CheckoutOptions(result.Razorpay, result.OrderNumber, razorpay.Contact{
		Name:  session.Address.FullName,
		Email: session.Email,
		Phone: session.Address.Phone,
	})
	if err != nil {
		// The order exists server-side but the widget cannot open; fail
		// closed on review rather than pretend a payment is running.
		session.FailPlacing(publicMessage(err))
		if saveErr := s.repo.Save(ctx, session); saveErr != nil {
			s.error(ctx, session, "checkout.save_after_widget_failure", saveErr)
		}
		return nil, err
	}

	if err := session.AwaitPayment(result); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.info(ctx, session, "checkout.awaiting_payment")
	return &SubmitResult{Session: session, Payment: options}, nil
}

// ResolvePayment applies the widget's terminal callback exactly once. All
// three resolutions land on confirmation; only the verified flag and the
// surfaced message differ.
func (s *service) ResolvePayment(ctx context.Context, id uuid.UUID, token string, resolution razorpay.Resolution) (*Session, error) {
	if err := resolution.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	session, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.AwaitingPayment() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment awaiting resolution")
	}

	var verified bool
	var message string
	switch resolution.Kind {
	case enums.PaymentResolutionCompleted:
		if verifyErr := s.gw.VerifyPayment(ctx, token, *resolution.Completed); verifyErr != nil {
			s.error(ctx, session, "checkout.verify_payment_failed", verifyErr)
			message = msgPaymentUnresolved
		} else {
			verified = true
		}
	case enums.PaymentResolutionFailed:
		message = msgPaymentFailed
		if resolution.FailureDescription != "" {
			message = resolution.FailureDescription
		}
	case enums.PaymentResolutionDismissed:
		message = msgPaymentCancelled
	}

	if err := session.CompletePayment(verified, message); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.IncPaymentOutcome(resolution.Kind.String())
	s.info(ctx, session, "checkout.payment_resolved")
	return session, nil
}

// Quote derives the pricing for a session's cart.
func (s *service) Quote(session *Session) Quote {
	if session == nil {
		return s.pricer.Quote(nil)
	}
	return s.pricer.Quote(session.Cart)
}

// mutate runs a transition under the session's lock and persists the result.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// lock serializes access per session. The source workflow ran on a single
// event loop; over HTTP two requests for one session can race, so the loser
// must observe the winner's state instead of double-firing a transition.
func (s *service) lock(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *service) info(ctx context.Context, session *Session, msg string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSessionID(ctx, session.ID.String())
	if session.Outcome != nil {
		ctx = s.logg.WithOrderID(ctx, session.Outcome.OrderID)
	}
	s.logg.Info(ctx, msg)
}

func (s *service) error(ctx context.Context, session *Session, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSessionID(ctx, session.ID.String())
	s.logg.Error(ctx, msg, err)
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return "could not place the order, please try again"
}
