package ledger

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// Drift compares a campaign's stored aggregates with the totals recomputed
// from its completed donations.
type Drift struct {
	CampaignID   string
	Title        string
	StoredRaised decimal.Decimal
	StoredCount  int64
	LedgerRaised decimal.Decimal
	LedgerCount  int64
}

// Consistent reports whether stored and recomputed aggregates agree.
func (d Drift) Consistent() bool {
	return d.StoredRaised.Equal(d.LedgerRaised) && d.StoredCount == d.LedgerCount
}

// Reconciler detects and repairs aggregate drift.
type Reconciler struct {
	store  domain.Store
	logger zerolog.Logger
}

func NewReconciler(store domain.Store, logger zerolog.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Check compares the stored aggregates of one campaign with its ledger.
func (r *Reconciler) Check(ctx context.Context, campaignID string) (Drift, error) {
	campaign, err := r.store.Campaigns().Get(ctx, campaignID)
	if err != nil {
		return Drift{}, err
	}
	balance, err := r.store.Ledger().CampaignBalance(ctx, campaignID)
	if err != nil {
		return Drift{}, err
	}
	return Drift{
		CampaignID:   campaign.ID,
		Title:        campaign.Title,
		StoredRaised: balance.Stored.Raised,
		StoredCount:  balance.Stored.Count,
		LedgerRaised: balance.Ledger.Raised,
		LedgerCount:  balance.Ledger.Count,
	}, nil
}

// CheckAll checks every campaign regardless of status.
func (r *Reconciler) CheckAll(ctx context.Context) ([]Drift, error) {
	views, err := r.store.Campaigns().List(ctx, domain.CampaignFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]Drift, 0, len(views))
	for _, v := range views {
		drift, err := r.Check(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, drift)
	}
	return out, nil
}

// Apply repairs a drifted campaign. The store recomputes the totals at write
// time, so donations completed after drift was checked are kept.
func (r *Reconciler) Apply(ctx context.Context, drift Drift) error {
	if drift.Consistent() {
		return nil
	}
	totals, err := r.store.Ledger().RecomputeCampaignAggregates(ctx, drift.CampaignID)
	if err != nil {
		return err
	}
	r.logger.Warn().
		Str("campaign_id", drift.CampaignID).
		Str("stored_raised", drift.StoredRaised.String()).
		Str("ledger_raised", totals.Raised.String()).
		Int64("stored_count", drift.StoredCount).
		Int64("ledger_count", totals.Count).
		Msg("campaign aggregates repaired")
	return nil
}
