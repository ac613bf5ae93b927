// Package ledger records verified donations and keeps campaign and donor
// aggregates equal to the sum of completed donations.
package ledger

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/payment"
)

// Donor identifies who paid: an account id, or a name and email used to
// find or create a donor account.
type Donor struct {
	ID    string
	Name  string
	Email string
}

// Payment carries the gateway correlation ids of a captured payment.
type Payment struct {
	OrderID   string
	PaymentID string
	Signature string
}

// RecordInput is a donation whose payment has already been verified.
type RecordInput struct {
	CampaignID string
	Donor      Donor
	Amount     decimal.Decimal
	Currency   string
	Message    string
	Anonymous  bool
	Payment    Payment
	Country    string
}

// Result is the outcome of recording a donation.
type Result struct {
	Donation      domain.Donation
	CampaignTitle string
	// Replayed is true when the payment had already been recorded and no
	// aggregate changed.
	Replayed bool
}

// Recorder applies verified donations to the store.
type Recorder struct {
	store  domain.Store
	logger zerolog.Logger
}

func NewRecorder(store domain.Store, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record validates in, resolves the campaign and donor, and completes the
// donation together with its aggregate increments. Validation failures
// leave the store untouched.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*Result, error) {
	d, err := r.validate(in)
	if err != nil {
		return nil, err
	}

	campaign, err := r.store.Campaigns().Get(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}

	var guest *domain.Guest
	if in.Donor.ID != "" {
		donor, err := r.store.Users().Get(ctx, in.Donor.ID)
		if err != nil {
			return nil, err
		}
		d.DonorID = donor.ID
	} else {
		guest = guestFor(in.Donor)
	}

	replayed, err := r.store.Ledger().CompleteDonation(ctx, d, guest)
	if err != nil {
		r.logger.Error().Err(err).
			Str("campaign_id", in.CampaignID).
			Str("order_id", in.Payment.OrderID).
			Msg("record donation failed")
		return nil, err
	}

	event := r.logger.Info()
	if replayed {
		event = r.logger.Debug()
	}
	event.Str("donation_id", d.ID).
		Str("campaign_id", d.CampaignID).
		Str("amount", d.Amount.String()).
		Bool("replayed", replayed).
		Msg("donation recorded")

	return &Result{Donation: *d, CampaignTitle: campaign.Title, Replayed: replayed}, nil
}

func (r *Recorder) validate(in RecordInput) (*domain.Donation, error) {
	if strings.TrimSpace(in.CampaignID) == "" {
		return nil, domain.Invalid("campaign id is required")
	}
	if in.Donor.ID == "" {
		email := strings.TrimSpace(in.Donor.Email)
		if email == "" {
			return nil, domain.Invalid("donor email is required")
		}
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			return nil, domain.Invalid("invalid donor email address")
		}
	}
	req, err := payment.ValidateOrder(payment.OrderRequest{Amount: in.Amount, Currency: strings.TrimSpace(in.Currency)})
	if err != nil {
		return nil, err
	}
	return &domain.Donation{
		CampaignID:    in.CampaignID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: domain.PaymentMethodRazorpay,
		Anonymous:     in.Anonymous || strings.TrimSpace(in.Donor.Name) == domain.AnonymousDonorName,
		Message:       strings.TrimSpace(in.Message),
		OrderID:       in.Payment.OrderID,
		PaymentID:     in.Payment.PaymentID,
		Signature:     in.Payment.Signature,
		TaxDeductible: true,
		DonorCountry:  strings.ToUpper(in.Country),
	}, nil
}

func guestFor(donor Donor) *domain.Guest {
	name := strings.TrimSpace(donor.Name)
	if name == "" {
		name = domain.AnonymousDonorName
	}
	return &domain.Guest{Name: name, Email: strings.ToLower(strings.TrimSpace(donor.Email))}
}
