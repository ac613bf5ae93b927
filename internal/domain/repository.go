package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CampaignFilter narrows campaign listings. Zero values mean "any".
type CampaignFilter struct {
	Statuses  []CampaignStatus
	Category  CampaignCategory
	Featured  *bool
	MinGoal   *decimal.Decimal
	MaxGoal   *decimal.Decimal
	Search    string
	CreatorID string
}

// CampaignView is a campaign joined with its temple and creator.
type CampaignView struct {
	Campaign
	Temple       Temple
	CreatorName  string
	CreatorEmail string
}

// CampaignRepository persists campaigns and their child records.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	Get(ctx context.Context, id string) (*Campaign, error)
	GetView(ctx context.Context, id string) (*CampaignView, error)
	List(ctx context.Context, filter CampaignFilter) ([]CampaignView, error)
	Update(ctx context.Context, campaign *Campaign) error
	SetStatus(ctx context.Context, id string, from, to CampaignStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	DeleteUnfunded(ctx context.Context, id string) error
	AddUpdate(ctx context.Context, campaignID string, update *CampaignUpdate) error
	CountByCreator(ctx context.Context, creatorID string) (int64, error)
}

// TempleRepository persists temples.
type TempleRepository interface {
	FindOrCreate(ctx context.Context, temple *Temple) (*Temple, error)
	Get(ctx context.Context, id string) (*Temple, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetRole(ctx context.Context, id string, role UserRole) error
}

// DonationRepository persists donation records outside the ledger unit.
type DonationRepository interface {
	CreatePending(ctx context.Context, donation *Donation) error
	Get(ctx context.Context, id string) (*Donation, error)
	GetByOrderID(ctx context.Context, orderID string) (*Donation, error)
	ListByDonor(ctx context.Context, donorID string, limit, offset int) ([]DonationView, int64, error)
	ListByCampaign(ctx context.Context, campaignID string, limit int) ([]DonationView, error)
	ListUnreceipted(ctx context.Context, limit int) ([]DonationView, error)
	MarkReceiptGenerated(ctx context.Context, id string) error
	// MarkReceiptFailed records a failed delivery so the donation moves
	// behind receipts that have not been attempted as recently.
	MarkReceiptFailed(ctx context.Context, id string) error
}

// LedgerTotals are aggregates recomputed from completed donations.
type LedgerTotals struct {
	Raised decimal.Decimal
	Count  int64
}

// CampaignBalance pairs the aggregates stored on a campaign with the totals
// of its completed donations, read from one snapshot.
type CampaignBalance struct {
	Stored LedgerTotals
	Ledger LedgerTotals
}

// LedgerRepository applies donations and their aggregate increments.
type LedgerRepository interface {
	// CompleteDonation persists the donation as completed and increments the
	// campaign and donor aggregates as a single unit. The gateway order id is
	// the idempotency key: when a completed donation already exists for it,
	// donation is overwritten with the stored record, no aggregate changes,
	// and replayed is true. When donation.DonorID is empty the account for
	// guest is found or created inside the same unit, so a rejected donation
	// leaves no account behind.
	CompleteDonation(ctx context.Context, donation *Donation, guest *Guest) (replayed bool, err error)
	CampaignBalance(ctx context.Context, campaignID string) (CampaignBalance, error)
	// RecomputeCampaignAggregates overwrites the stored aggregates with the
	// totals of the campaign's completed donations. No donation for the
	// campaign completes between the sum and the write.
	RecomputeCampaignAggregates(ctx context.Context, campaignID string) (LedgerTotals, error)
}

// Store groups the repositories backing the service.
type Store interface {
	Campaigns() CampaignRepository
	Temples() TempleRepository
	Users() UserRepository
	Donations() DonationRepository
	Ledger() LedgerRepository
	Ping(ctx context.Context) error
}
