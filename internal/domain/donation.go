package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus enumerates donation lifecycle states.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

// PaymentMethod enumerates how a donation was paid.
type PaymentMethod string

const (
	PaymentMethodRazorpay     PaymentMethod = "razorpay"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// AnonymousDonorName replaces the donor name in outward-facing projections.
const AnonymousDonorName = "Anonymous"

// Donation represents a supporter contribution to one campaign.
type Donation struct {
	ID               string
	DonorID          string
	CampaignID       string
	Amount           decimal.Decimal
	Currency         string
	Status           DonationStatus
	PaymentMethod    PaymentMethod
	Anonymous        bool
	Message          string
	OrderID          string
	PaymentID        string
	Signature        string
	ReceiptGenerated bool
	TaxDeductible    bool
	DonorCountry     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IdempotencyKey identifies a donation attempt across retries.
func (d Donation) IdempotencyKey() string {
	if d.OrderID != "" {
		return d.OrderID
	}
	return d.PaymentID
}

// Guest names the donor account to find or create when a verified donation
// arrives without a signed-in donor.
type Guest struct {
	Name  string
	Email string
}

// DonationView is a donation joined with the campaign and donor names it references.
type DonationView struct {
	Donation
	CampaignTitle string
	CampaignImage string
	DonorName     string
	DonorEmail    string
}

// DisplayName returns the donor name safe for public listings.
func (v DonationView) DisplayName() string {
	if v.Anonymous || v.DonorName == "" {
		return AnonymousDonorName
	}
	return v.DonorName
}

// CheckIntent rejects completing intent with a verified donation whose
// campaign or amount differs from what was ordered.
func CheckIntent(intent, verified *Donation) error {
	if intent.CampaignID != verified.CampaignID {
		return Invalid("order %s belongs to a different campaign", intent.OrderID)
	}
	if !intent.Amount.Equal(verified.Amount) {
		return Invalid("amount %s does not match order amount %s", verified.Amount.String(), intent.Amount.String())
	}
	return nil
}
