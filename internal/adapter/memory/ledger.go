package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

type donationRepo struct{ s *Store }

func (r donationRepo) CreatePending(ctx context.Context, d *domain.Donation) error {
	unlock, err := r.s.lock(ctx, "insert donation intent")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.campaigns[d.CampaignID]; !ok {
		return domain.NotFound("referenced record")
	}
	if d.DonorID != "" {
		if _, ok := r.s.users[d.DonorID]; !ok {
			return domain.NotFound("referenced record")
		}
	}
	if _, taken := r.s.byOrder[d.OrderID]; taken && d.OrderID != "" {
		return domain.Conflict("donation already exists")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = domain.PaymentMethodRazorpay
	}
	d.Status = domain.DonationStatusPending
	now := r.s.now()
	d.CreatedAt, d.UpdatedAt = now, now
	r.s.insertDonation(d)
	return nil
}

func (r donationRepo) Get(ctx context.Context, id string) (*domain.Donation, error) {
	unlock, err := r.s.lock(ctx, "get donation")
	defer unlock()
	if err != nil {
		return nil, err
	}
	d, ok := r.s.donations[id]
	if !ok {
		return nil, domain.NotFound("donation")
	}
	out := *d
	return &out, nil
}

func (r donationRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Donation, error) {
	unlock, err := r.s.lock(ctx, "get donation by order")
	defer unlock()
	if err != nil {
		return nil, err
	}
	id, ok := r.s.byOrder[orderID]
	if !ok || orderID == "" {
		return nil, domain.NotFound("donation")
	}
	out := *r.s.donations[id]
	return &out, nil
}

func (r donationRepo) ListByDonor(ctx context.Context, donorID string, limit, offset int) ([]domain.DonationView, int64, error) {
	unlock, err := r.s.lock(ctx, "list donations")
	defer unlock()
	if err != nil {
		return nil, 0, err
	}
	all := r.s.completedViews(func(d *domain.Donation) bool { return d.DonorID == donorID }, newestFirst)
	total := int64(len(all))
	return page(all, limit, offset), total, nil
}

func (r donationRepo) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.DonationView, error) {
	unlock, err := r.s.lock(ctx, "list campaign donations")
	defer unlock()
	if err != nil {
		return nil, err
	}
	all := r.s.completedViews(func(d *domain.Donation) bool { return d.CampaignID == campaignID }, newestFirst)
	return page(all, limit, 0), nil
}

func (r donationRepo) ListUnreceipted(ctx context.Context, limit int) ([]domain.DonationView, error) {
	unlock, err := r.s.lock(ctx, "list unreceipted donations")
	defer unlock()
	if err != nil {
		return nil, err
	}
	tries := r.s.receiptTries
	all := r.s.completedViews(func(d *domain.Donation) bool { return !d.ReceiptGenerated }, func(a, b *domain.DonationView) bool {
		if tries[a.ID] != tries[b.ID] {
			return tries[a.ID] < tries[b.ID]
		}
		return oldestFirst(a, b)
	})
	return page(all, limit, 0), nil
}

func (r donationRepo) MarkReceiptGenerated(ctx context.Context, id string) error {
	unlock, err := r.s.lock(ctx, "mark receipt")
	defer unlock()
	if err != nil {
		return err
	}
	d, ok := r.s.donations[id]
	if !ok {
		return domain.NotFound("donation")
	}
	d.ReceiptGenerated = true
	d.UpdatedAt = r.s.now()
	delete(r.s.receiptTries, id)
	return nil
}

func (r donationRepo) MarkReceiptFailed(ctx context.Context, id string) error {
	unlock, err := r.s.lock(ctx, "mark receipt failed")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.donations[id]; !ok {
		return domain.NotFound("donation")
	}
	r.s.receiptSeq++
	r.s.receiptTries[id] = r.s.receiptSeq
	return nil
}

// insertDonation stores a copy of d and indexes its gateway ids. Callers hold mu.
func (s *Store) insertDonation(d *domain.Donation) {
	stored := *d
	s.donations[stored.ID] = &stored
	s.index(&stored)
}

func (s *Store) index(d *domain.Donation) {
	if d.OrderID != "" {
		s.byOrder[d.OrderID] = d.ID
	}
	if d.PaymentID != "" {
		s.byPayment[d.PaymentID] = d.ID
	}
}

func newestFirst(a, b *domain.DonationView) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func oldestFirst(a, b *domain.DonationView) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// completedViews joins matching completed donations with their campaign and
// donor. Callers hold mu.
func (s *Store) completedViews(keep func(*domain.Donation) bool, less func(a, b *domain.DonationView) bool) []domain.DonationView {
	items := []domain.DonationView{}
	for _, d := range s.donations {
		if d.Status != domain.DonationStatusCompleted || !keep(d) {
			continue
		}
		view := domain.DonationView{Donation: *d}
		if c, ok := s.campaigns[d.CampaignID]; ok {
			view.CampaignTitle = c.Title
			if len(c.Images) > 0 {
				view.CampaignImage = c.Images[0]
			}
		}
		if u, ok := s.users[d.DonorID]; ok {
			view.DonorName, view.DonorEmail = u.Name, u.Email
		}
		items = append(items, view)
	}
	sort.Slice(items, func(i, j int) bool { return less(&items[i], &items[j]) })
	return items
}

func page(items []domain.DonationView, limit, offset int) []domain.DonationView {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []domain.DonationView{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type ledgerRepo struct{ s *Store }

// CompleteDonation validates everything it is about to touch before the
// first write, so a failure leaves every record unchanged.
func (r ledgerRepo) CompleteDonation(ctx context.Context, d *domain.Donation, guest *domain.Guest) (bool, error) {
	unlock, err := r.s.lock(ctx, "complete donation")
	defer unlock()
	if err != nil {
		return false, err
	}

	intent, replayed, err := r.s.lookupAttempt(d)
	if err != nil || replayed {
		return replayed, err
	}

	campaign, ok := r.s.campaigns[d.CampaignID]
	if !ok {
		return false, domain.NotFound("campaign")
	}
	var donor *domain.User
	switch {
	case d.DonorID != "":
		if donor, ok = r.s.users[d.DonorID]; !ok {
			return false, domain.NotFound("user")
		}
	case guest != nil:
		donor = r.s.guestAccount(*guest)
		d.DonorID = donor.ID
	default:
		return false, domain.Invalid("donor is required")
	}

	now := r.s.now()
	if intent != nil {
		intent.Status = domain.DonationStatusCompleted
		intent.DonorID = d.DonorID
		intent.PaymentID = d.PaymentID
		intent.Signature = d.Signature
		intent.Anonymous = d.Anonymous
		intent.Message = d.Message
		intent.DonorCountry = d.DonorCountry
		intent.UpdatedAt = now
		r.s.index(intent)
		*d = *intent
	} else {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if d.PaymentMethod == "" {
			d.PaymentMethod = domain.PaymentMethodRazorpay
		}
		d.Status = domain.DonationStatusCompleted
		d.CreatedAt, d.UpdatedAt = now, now
		r.s.insertDonation(d)
	}

	campaign.RaisedAmount = campaign.RaisedAmount.Add(d.Amount)
	campaign.DonorCount++
	campaign.UpdatedAt = now
	markMilestones(campaign, now)

	donor.TotalDonated = donor.TotalDonated.Add(d.Amount)
	donor.DonationCount++
	donor.UpdatedAt = now
	return false, nil
}

// lookupAttempt resolves the stored record for d's gateway ids. It returns
// the pending intent to complete, or replayed=true with d overwritten by the
// completed record. Callers hold mu.
func (s *Store) lookupAttempt(d *domain.Donation) (*domain.Donation, bool, error) {
	if id, ok := s.byOrder[d.OrderID]; ok && d.OrderID != "" {
		stored := s.donations[id]
		switch stored.Status {
		case domain.DonationStatusCompleted:
			*d = *stored
			return nil, true, nil
		case domain.DonationStatusPending:
		default:
			return nil, false, domain.Invalid("order %s is %s", stored.OrderID, stored.Status)
		}
		if err := domain.CheckIntent(stored, d); err != nil {
			return nil, false, err
		}
		if other, ok := s.byPayment[d.PaymentID]; ok && d.PaymentID != "" && other != stored.ID {
			return nil, false, domain.Conflict("donation already exists")
		}
		return stored, false, nil
	}
	if id, ok := s.byPayment[d.PaymentID]; ok && d.PaymentID != "" {
		stored := s.donations[id]
		if stored.Status != domain.DonationStatusCompleted {
			return nil, false, domain.Conflict("donation for this payment is being processed")
		}
		*d = *stored
		return nil, true, nil
	}
	return nil, false, nil
}

func markMilestones(c *domain.Campaign, now time.Time) {
	for i := range c.Milestones {
		m := &c.Milestones[i]
		if m.Achieved || m.Amount.GreaterThan(c.RaisedAmount) {
			continue
		}
		m.Achieved = true
		at := now
		m.AchievedAt = &at
	}
}

func (r ledgerRepo) CampaignBalance(ctx context.Context, campaignID string) (domain.CampaignBalance, error) {
	unlock, err := r.s.lock(ctx, "campaign balance")
	defer unlock()
	if err != nil {
		return domain.CampaignBalance{}, err
	}
	c, ok := r.s.campaigns[campaignID]
	if !ok {
		return domain.CampaignBalance{}, domain.NotFound("campaign")
	}
	return domain.CampaignBalance{
		Stored: domain.LedgerTotals{Raised: c.RaisedAmount, Count: c.DonorCount},
		Ledger: r.s.ledgerTotals(campaignID),
	}, nil
}

func (r ledgerRepo) RecomputeCampaignAggregates(ctx context.Context, campaignID string) (domain.LedgerTotals, error) {
	unlock, err := r.s.lock(ctx, "recompute campaign aggregates")
	defer unlock()
	if err != nil {
		return domain.LedgerTotals{}, err
	}
	c, ok := r.s.campaigns[campaignID]
	if !ok {
		return domain.LedgerTotals{}, domain.NotFound("campaign")
	}
	totals := r.s.ledgerTotals(campaignID)
	c.RaisedAmount = totals.Raised
	c.DonorCount = totals.Count
	c.UpdatedAt = r.s.now()
	return totals, nil
}

// ledgerTotals sums the completed donations of a campaign. Callers hold mu.
func (s *Store) ledgerTotals(campaignID string) domain.LedgerTotals {
	totals := domain.LedgerTotals{Raised: decimal.Zero}
	for _, d := range s.donations {
		if d.CampaignID == campaignID && d.Status == domain.DonationStatusCompleted {
			totals.Raised = totals.Raised.Add(d.Amount)
			totals.Count++
		}
	}
	return totals
}

// ForceAggregates overwrites a campaign's stored aggregates without touching
// its donations. Reconciliation drills use it to stage a known drift.
func (s *Store) ForceAggregates(campaignID string, totals domain.LedgerTotals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return domain.NotFound("campaign")
	}
	c.RaisedAmount = totals.Raised
	c.DonorCount = totals.Count
	return nil
}
