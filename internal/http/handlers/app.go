package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/accounts"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/campaigns"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/ledger"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/middleware"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

const (
	defaultStoreTimeout = 5 * time.Second
	maxBodyBytes        = 1 << 20
)

// App holds the services behind the HTTP handlers.
type App struct {
	Store        domain.Store
	Campaigns    *campaigns.Service
	Ledger       *ledger.Service
	Accounts     *accounts.Service
	Logger       zerolog.Logger
	JWTSecret    string
	StoreTimeout time.Duration
}

// NewApp wires the services over store and gateway. Session tokens are
// signed with jwtSecret.
func NewApp(store domain.Store, gateway payment.Gateway, logger zerolog.Logger, jwtSecret string, storeTimeout time.Duration) *App {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &App{
		Store:     store,
		Campaigns: campaigns.NewService(store, logger),
		Ledger:    ledger.NewService(store, gateway, logger),
		Accounts: accounts.NewService(store, func(u domain.User, now time.Time) (string, time.Time, error) {
			return middleware.SignJWT(jwtSecret, u, now)
		}, logger),
		Logger:       logger,
		JWTSecret:    jwtSecret,
		StoreTimeout: storeTimeout,
	}
}

// ctx bounds the storage and gateway calls of one request.
func (a *App) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), a.StoreTimeout)
}

func (a *App) actor(r *http.Request) domain.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorEnvelope{Error: errorBody{Code: errCode, Message: message}})
}

// fail converts a service error into the error envelope. Server-side
// failures are logged and their details withheld from the client.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	a.json(w, status, errorEnvelope{Error: body})
}

func classify(err error) (int, errorBody) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorBody{Code: "validation_error", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "forbidden", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Code: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorBody{Code: "conflict", Message: err.Error()}
	case payment.IsNotConfigured(err):
		return http.StatusInternalServerError, errorBody{Code: "gateway_not_configured", Message: "payment gateway is not configured"}
	case errors.Is(err, domain.ErrPaymentVerification):
		return http.StatusBadRequest, errorBody{Code: "payment_verification_failed", Message: "invalid payment signature"}
	case errors.Is(err, payment.ErrGateway):
		return http.StatusBadGateway, errorBody{Code: "gateway_error", Message: "payment gateway request failed"}
	case errors.Is(err, domain.ErrPersistence), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorBody{Code: "unavailable", Message: "storage temporarily unavailable, retry the request", Retryable: true}
	}
	return http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal error"}
}

// decode reads a JSON request body into dst. Unknown fields are ignored.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("request body required")
		}
		return domain.Invalid("invalid payload")
	}
	return nil
}

// validator is implemented by request bodies that check their own shape
// before any service call.
type validator interface {
	Validate() error
}

// bind decodes and validates a request body.
func bind(w http.ResponseWriter, r *http.Request, dst validator) error {
	if err := decode(w, r, dst); err != nil {
		return err
	}
	return dst.Validate()
}
