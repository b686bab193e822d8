package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Gateway  GatewayConfig
	Razorpay RazorpayConfig
	Pricing  PricingConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PARTSPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTSPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTSPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTSPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GatewayConfig points at the storefront backend that owns carts, profiles,
// orders and payment verification.
type GatewayConfig struct {
	BaseURL string `envconfig:"PARTSPOINT_GATEWAY_BASE_URL" required:"true"`
	// Timeout bounds every storefront call. Zero keeps calls unbounded,
	// matching the storefront client's historical behavior.
	Timeout time.Duration `envconfig:"PARTSPOINT_GATEWAY_TIMEOUT" default:"0"`
}

// RazorpayConfig carries the merchant identity handed to the browser widget.
// An empty KeyID disables online payment: submissions requiring the widget
// fail closed instead of opening a broken checkout.
type RazorpayConfig struct {
	KeyID        string `envconfig:"PARTSPOINT_RAZORPAY_KEY_ID"`
	Currency     string `envconfig:"PARTSPOINT_RAZORPAY_CURRENCY" default:"INR"`
	ThemeColor   string `envconfig:"PARTSPOINT_RAZORPAY_THEME_COLOR" default:"#d32f2f"`
	MerchantName string `envconfig:"PARTSPOINT_RAZORPAY_MERCHANT_NAME" default:"PartsPoint"`
}

// Enabled reports whether the widget can be opened at all.
func (r RazorpayConfig) Enabled() bool {
	return strings.TrimSpace(r.KeyID) != ""
}

type PricingConfig struct {
	FreeShippingThreshold float64 `envconfig:"PARTSPOINT_FREE_SHIPPING_THRESHOLD" default:"999"`
	FlatShippingFee       float64 `envconfig:"PARTSPOINT_FLAT_SHIPPING_FEE" default:"49"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingThreshold < 0 {
		return fmt.Errorf("free shipping threshold must not be negative")
	}
	if p.FlatShippingFee < 0 {
		return fmt.Errorf("flat shipping fee must not be negative")
	}
	return nil
}

// RedisConfig is optional: with no URL or address the service keeps checkout
// sessions in process memory and skips the idempotency guard.
type RedisConfig struct {
	URL          string        `envconfig:"PARTSPOINT_REDIS_URL"`
	Address      string        `envconfig:"PARTSPOINT_REDIS_ADDR"`
	Password     string        `envconfig:"PARTSPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTSPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTSPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTSPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTSPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTSPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTSPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis endpoint was provided.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type CheckoutConfig struct {
	// SessionTTL expires abandoned drafts. Confirmation records share the
	// same TTL so the shopper can refresh the final page.
	SessionTTL     time.Duration `envconfig:"PARTSPOINT_CHECKOUT_SESSION_TTL" default:"2h"`
	IdempotencyTTL time.Duration `envconfig:"PARTSPOINT_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}
