package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MockSessionSecret signs session tokens when mock mode runs without JWT_SECRET.
const MockSessionSecret = "mock-session-secret"

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`
	MockMode    bool   `env:"MOCK_MODE" envDefault:"false"`

	RazorpayKeyID     string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `env:"RAZORPAY_KEY_SECRET"`
	RazorpayBaseURL   string `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com/v1"`

	GeoIPDBPath        string   `env:"GEOIP_DB_PATH"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	HTTPReadTimeoutSeconds  int `env:"HTTP_READ_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPWriteTimeoutSeconds int `env:"HTTP_WRITE_TIMEOUT_SECONDS" envDefault:"30"`
	HTTPIdleTimeoutSeconds  int `env:"HTTP_IDLE_TIMEOUT_SECONDS" envDefault:"60"`
	StoreTimeoutSeconds     int `env:"STORE_TIMEOUT_SECONDS" envDefault:"5"`
	RateLimitPerMin         int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	SMTPHost           string `env:"SMTP_HOST"`
	SMTPPort           string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser           string `env:"SMTP_USER"`
	SMTPPassword       string `env:"SMTP_PASSWORD"`
	MailFrom           string `env:"MAIL_FROM"`
	ReceiptPollSeconds int    `env:"RECEIPT_POLL_SECONDS" envDefault:"10"`

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	StoreTimeout     time.Duration
	ReceiptPoll      time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Outside mock mode the database, session secret and gateway keys are required.
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.HTTPReadTimeout = seconds(cfg.HTTPReadTimeoutSeconds, 15)
	cfg.HTTPWriteTimeout = seconds(cfg.HTTPWriteTimeoutSeconds, 30)
	cfg.HTTPIdleTimeout = seconds(cfg.HTTPIdleTimeoutSeconds, 60)
	cfg.StoreTimeout = seconds(cfg.StoreTimeoutSeconds, 5)
	cfg.ReceiptPoll = seconds(cfg.ReceiptPollSeconds, 10)
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = 30
	}
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)

	if cfg.MockMode {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = MockSessionSecret
		}
		return &cfg, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required unless MOCK_MODE is enabled")
	}

	return &cfg, nil
}

// SMTPConfigured reports whether receipts can be delivered by mail.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
