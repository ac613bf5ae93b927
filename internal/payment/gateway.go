package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// ErrGateway is returned when the gateway cannot serve a request.
var ErrGateway = errors.New("payment gateway error")

// OrderRequest describes an order to open with the gateway.
type OrderRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the gateway's descriptor of an opened order. Amount is expressed
// in the currency's minor unit (paise for INR), as the gateway reports it.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status"`
}

// Gateway is the payment provider capability. Exactly one implementation is
// selected at startup.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// Simulator is implemented by gateways that can fabricate a captured payment
// for an order. Only the mock gateway provides it.
type Simulator interface {
	SimulateCapture(orderID string) (paymentID, signature string)
}

// ValidateOrder normalises and checks an order request.
func ValidateOrder(req OrderRequest) (OrderRequest, error) {
	if !req.Amount.IsPositive() {
		return req, domain.Invalid("amount must be positive")
	}
	if req.Currency == "" {
		req.Currency = domain.DefaultCurrency
	}
	unit, err := currency.ParseISO(req.Currency)
	if err != nil {
		return req, domain.Invalid("unsupported currency %q", req.Currency)
	}
	req.Currency = unit.String()
	if _, err := MinorUnits(req.Amount); err != nil {
		return req, err
	}
	return req, nil
}

// MinorUnits converts a major-unit amount to the gateway's integer minor
// unit. Amounts with more than two decimal places are rejected.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, domain.Invalid("amount %s has more than two decimal places", amount.String())
	}
	return minor.IntPart(), nil
}

func gatewayError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrGateway, op, err)
}
