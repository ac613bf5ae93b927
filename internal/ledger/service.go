package ledger

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

// OrderInput asks for a gateway order. When CampaignID is set a pending
// donation intent is stored under the returned order id.
type OrderInput struct {
	Amount     decimal.Decimal
	Currency   string
	CampaignID string
	DonorID    string
	Anonymous  bool
	Message    string
	Country    string
}

// Service is the payment-facing entry point: it opens gateway orders and
// records a donation only after the gateway signature has been verified.
type Service struct {
	store    domain.Store
	gateway  payment.Gateway
	recorder *Recorder
	logger   zerolog.Logger
}

func NewService(store domain.Store, gateway payment.Gateway, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		recorder: NewRecorder(store, logger),
		logger:   logger,
	}
}

// Gateway returns the configured payment gateway.
func (s *Service) Gateway() payment.Gateway {
	return s.gateway
}

// PlaceOrder opens a gateway order. Orders for a campaign require it to be
// active and leave a pending intent that verification later completes.
func (s *Service) PlaceOrder(ctx context.Context, in OrderInput) (*payment.Order, error) {
	req, err := payment.ValidateOrder(payment.OrderRequest{Amount: in.Amount, Currency: in.Currency})
	if err != nil {
		return nil, err
	}
	if in.CampaignID != "" {
		campaign, err := s.store.Campaigns().Get(ctx, in.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign.Status != domain.CampaignStatusActive {
			return nil, domain.Invalid("campaign is %s and does not accept donations", campaign.Status)
		}
		req.Notes = map[string]string{"campaign_id": campaign.ID}
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("gateway", s.gateway.Name()).Msg("create order failed")
		return nil, err
	}
	if in.CampaignID == "" {
		return order, nil
	}

	intent := &domain.Donation{
		DonorID:       in.DonorID,
		CampaignID:    in.CampaignID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: domain.PaymentMethodRazorpay,
		Anonymous:     in.Anonymous,
		Message:       strings.TrimSpace(in.Message),
		OrderID:       order.ID,
		TaxDeductible: true,
		DonorCountry:  strings.ToUpper(in.Country),
	}
	if err := s.store.Donations().CreatePending(ctx, intent); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("store donation intent failed")
		return nil, err
	}
	s.logger.Info().Str("order_id", order.ID).Str("campaign_id", in.CampaignID).Msg("donation intent created")
	return order, nil
}

// VerifyAndRecord checks the gateway signature and, only when it is valid,
// records the donation. A rejected signature changes nothing.
func (s *Service) VerifyAndRecord(ctx context.Context, in RecordInput) (*Result, error) {
	p := in.Payment
	if err := s.gateway.VerifySignature(p.OrderID, p.PaymentID, p.Signature); err != nil {
		event := s.logger.Warn()
		if payment.IsNotConfigured(err) {
			event = s.logger.Error()
		}
		event.Err(err).Str("order_id", p.OrderID).Str("payment_id", p.PaymentID).Msg("payment verification failed")
		return nil, err
	}
	return s.recorder.Record(ctx, in)
}

