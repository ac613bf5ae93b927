package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/ledger"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/middleware"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

type orderRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CampaignID string          `json:"campaignId"`
	Anonymous  bool            `json:"anonymous"`
	Message    string          `json:"message"`
}

func (req *orderRequest) Validate() error {
	if !req.Amount.IsPositive() {
		return domain.Invalid("amount required")
	}
	return nil
}

type donorInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Anonymous bool   `json:"anonymous"`
}

// verifyRequest accepts the gateway checkout field names as well as the
// short ones.
type verifyRequest struct {
	OrderID           string          `json:"orderId"`
	PaymentID         string          `json:"paymentId"`
	Signature         string          `json:"signature"`
	RazorpayOrderID   string          `json:"razorpay_order_id"`
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	RazorpaySignature string          `json:"razorpay_signature"`
	CampaignID        string          `json:"campaignId"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	DonorInfo         donorInfo       `json:"donorInfo"`
}

func (req *verifyRequest) Validate() error {
	req.OrderID = firstNonEmpty(req.OrderID, req.RazorpayOrderID)
	req.PaymentID = firstNonEmpty(req.PaymentID, req.RazorpayPaymentID)
	req.Signature = firstNonEmpty(req.Signature, req.RazorpaySignature)
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return domain.Invalid("missing payment verification data")
	}
	if strings.TrimSpace(req.CampaignID) == "" {
		return domain.Invalid("campaignId is required")
	}
	if !req.Amount.IsPositive() {
		return domain.Invalid("amount must be positive")
	}
	return nil
}

type captureRequest struct {
	OrderID string `json:"orderId"`
}

func (req *captureRequest) Validate() error {
	if strings.TrimSpace(req.OrderID) == "" {
		return domain.Invalid("orderId is required")
	}
	return nil
}

type donationDTO struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CampaignTitle string          `json:"campaignTitle"`
}

type verifyResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Replayed bool        `json:"replayed,omitempty"`
	Donation donationDTO `json:"donation"`
}

func (a *App) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	order, err := a.Ledger.PlaceOrder(ctx, ledger.OrderInput{
		Amount:     req.Amount,
		Currency:   req.Currency,
		CampaignID: strings.TrimSpace(req.CampaignID),
		DonorID:    a.actor(r).UserID,
		Anonymous:  req.Anonymous,
		Message:    req.Message,
		Country:    middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, order)
}

// VerifyPayment checks the gateway signature and records the donation. The
// authenticated caller, if any, is the donor; otherwise donorInfo names one.
func (a *App) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	donor := ledger.Donor{
		ID:    a.actor(r).UserID,
		Name:  strings.TrimSpace(req.DonorInfo.Name),
		Email: strings.TrimSpace(req.DonorInfo.Email),
	}
	if donor.ID == "" && donor.Email == "" {
		a.fail(w, r, domain.Invalid("donorInfo.email is required"))
		return
	}

	ctx, cancel := a.ctx(r)
	defer cancel()
	result, err := a.Ledger.VerifyAndRecord(ctx, ledger.RecordInput{
		CampaignID: strings.TrimSpace(req.CampaignID),
		Donor:      donor,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Message:    req.DonorInfo.Message,
		Anonymous:  req.DonorInfo.Anonymous || donor.Name == domain.AnonymousDonorName,
		Payment: ledger.Payment{
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Signature: req.Signature,
		},
		Country: middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	message := "Payment verified and donation recorded successfully"
	if result.Replayed {
		message = "Payment already recorded"
	}
	a.json(w, http.StatusOK, verifyResponse{
		Success:  true,
		Message:  message,
		Replayed: result.Replayed,
		Donation: donationDTO{
			ID:            result.Donation.ID,
			Amount:        result.Donation.Amount,
			Currency:      result.Donation.Currency,
			Status:        string(result.Donation.Status),
			CampaignTitle: result.CampaignTitle,
		},
	})
}

// MockCapture fabricates a signed payment for an order. It is routed only
// when the gateway can simulate captures.
func (a *App) MockCapture(w http.ResponseWriter, r *http.Request) {
	sim, ok := a.Ledger.Gateway().(payment.Simulator)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "mock payments are disabled")
		return
	}
	var req captureRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	paymentID, signature := sim.SimulateCapture(req.OrderID)
	a.json(w, http.StatusOK, map[string]string{
		"razorpay_order_id":   req.OrderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
