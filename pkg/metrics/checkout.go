package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the checkout funnel.
type CheckoutMetrics struct {
	sessionsStarted prometheus.Counter
	ordersPlaced    *prometheus.CounterVec
	paymentOutcomes *prometheus.CounterVec
	placeDuration   prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_started_total",
		Help: "Checkout sessions opened.",
	})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders accepted by the storefront, by payment method.",
	}, []string{"method"})
	paymentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_outcomes_total",
		Help: "Terminal online payment resolutions.",
	}, []string{"resolution"})
	placeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_place_order_duration_seconds",
		Help:    "Duration of storefront place-order calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(sessionsStarted, ordersPlaced, paymentOutcomes, placeDuration)
	return &CheckoutMetrics{
		sessionsStarted: sessionsStarted,
		ordersPlaced:    ordersPlaced,
		paymentOutcomes: paymentOutcomes,
		placeDuration:   placeDuration,
	}
}

// IncSessionStarted counts an opened session.
func (c *CheckoutMetrics) IncSessionStarted() {
	if c == nil || c.sessionsStarted == nil {
		return
	}
	c.sessionsStarted.Inc()
}

// IncOrderPlaced counts a storefront-accepted order for the given method.
func (c *CheckoutMetrics) IncOrderPlaced(method string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncPaymentOutcome counts a terminal payment resolution.
func (c *CheckoutMetrics) IncPaymentOutcome(resolution string) {
	if c == nil || c.paymentOutcomes == nil {
		return
	}
	c.paymentOutcomes.WithLabelValues(normalizeLabel(resolution)).Inc()
}

// ObservePlaceDuration records how long the place-order call took.
func (c *CheckoutMetrics) ObservePlaceDuration(duration time.Duration) {
	if c == nil || c.placeDuration == nil {
		return
	}
	c.placeDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
