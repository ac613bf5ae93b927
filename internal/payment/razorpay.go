package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultRazorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayOptions configures the live gateway client.
type RazorpayOptions struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	HTTPClient *http.Client
}

// RazorpayGateway talks to the Razorpay orders API.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	now       func() time.Time
}

// NewRazorpayGateway returns a live client. Both keys are required.
func NewRazorpayGateway(opts RazorpayOptions) (*RazorpayGateway, error) {
	if strings.TrimSpace(opts.KeyID) == "" || strings.TrimSpace(opts.KeySecret) == "" {
		return nil, errors.New("razorpay: key id and key secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultRazorpayBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RazorpayGateway{
		keyID:     opts.KeyID,
		keySecret: opts.KeySecret,
		baseURL:   baseURL,
		client:    client,
		now:       time.Now,
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayErrorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens an order. The amount is sent in the minor unit.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	req, err := ValidateOrder(req)
	if err != nil {
		return nil, err
	}
	minor, _ := MinorUnits(req.Amount)
	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + strconv.FormatInt(g.now().UnixNano(), 10)
	}
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   minor,
		Currency: req.Currency,
		Receipt:  receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay: marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("razorpay: build request: %w", err)
	}
	httpReq.SetBasicAuth(g.keyID, g.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, gatewayError("create order", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, gatewayError("read order response", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var envelope razorpayErrorEnvelope
		if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr == nil && envelope.Error.Description != "" {
			return nil, gatewayError("create order", fmt.Errorf("%s (%s)", envelope.Error.Description, envelope.Error.Code))
		}
		return nil, gatewayError("create order", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, gatewayError("decode order", err)
	}
	if order.ID == "" {
		return nil, gatewayError("decode order", errors.New("missing order id"))
	}
	return &order, nil
}

// VerifySignature checks a checkout callback signature with the key secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	return Verify(orderID, paymentID, signature, g.keySecret)
}
