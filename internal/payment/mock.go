package payment

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockSecret signs every payment produced by the mock gateway.
const MockSecret = "mock-razorpay-key-secret"

// MockGateway is a deterministic offline gateway used in mock mode and tests.
// Order ids are sequential; signatures use MockSecret so the regular
// verification path runs unchanged.
type MockGateway struct {
	orders   atomic.Int64
	payments atomic.Int64
}

// NewMockGateway returns a mock gateway whose first order is order_mock_000001.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	req, err := ValidateOrder(req)
	if err != nil {
		return nil, err
	}
	minor, _ := MinorUnits(req.Amount)
	n := g.orders.Add(1)
	receipt := req.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("mock_receipt_%06d", n)
	}
	return &Order{
		ID:       fmt.Sprintf("order_mock_%06d", n),
		Amount:   minor,
		Currency: req.Currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *MockGateway) VerifySignature(orderID, paymentID, signature string) error {
	return Verify(orderID, paymentID, signature, MockSecret)
}

// SimulateCapture fabricates a payment for orderID along with a valid signature.
func (g *MockGateway) SimulateCapture(orderID string) (string, string) {
	paymentID := fmt.Sprintf("pay_mock_%06d", g.payments.Add(1))
	return paymentID, Sign(orderID, paymentID, MockSecret)
}

var (
	_ Gateway   = (*MockGateway)(nil)
	_ Gateway   = (*RazorpayGateway)(nil)
	_ Simulator = (*MockGateway)(nil)
)
