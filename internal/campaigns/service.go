// Package campaigns answers campaign queries and applies the creator and
// admin operations of the campaign lifecycle.
package campaigns

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

const (
	DefaultLimit    = 10
	MaxLimit        = 100
	recentDonations = 10
)

// StatusAll disables the status filter of a listing.
const StatusAll = "all"

// Sort keys accepted by List.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPopular  = "popular"
	SortProgress = "progress"
	SortGoal     = "goal"
)

// Filter selects and orders campaigns. Status defaults to active; StatusAll
// disables the status filter.
type Filter struct {
	Status    string
	Category  string
	Featured  *bool
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
	Sort      string
	Limit     int
	CreatorID string
	Locale    string
}

// Service is the campaign query and management service.
type Service struct {
	store  domain.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(store domain.Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// List returns the projections matching f, sorted and truncated to the limit.
func (s *Service) List(ctx context.Context, f Filter) ([]Projection, error) {
	filter, err := f.domainFilter()
	if err != nil {
		return nil, err
	}
	order, err := sortOrder(f.Sort)
	if err != nil {
		return nil, err
	}

	views, err := s.store.Campaigns().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	format := NewFormatter(f.Locale)
	items := make([]Projection, 0, len(views))
	for _, v := range views {
		items = append(items, Project(v, now, format))
	}
	sort.SliceStable(items, func(i, j int) bool { return order(items[i], items[j]) })

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Get returns one campaign with its updates, milestones and recent
// donations. Anonymous donors are shown under the placeholder name.
func (s *Service) Get(ctx context.Context, id, locale string) (*Detail, error) {
	view, err := s.store.Campaigns().GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Donations().ListByCampaign(ctx, id, recentDonations)
	if err != nil {
		return nil, err
	}
	detail := &Detail{
		Projection:      Project(*view, s.now(), NewFormatter(locale)),
		Updates:         view.Updates,
		Milestones:      view.Milestones,
		RecentDonations: make([]DonationSummary, 0, len(recent)),
	}
	if detail.Updates == nil {
		detail.Updates = []domain.CampaignUpdate{}
	}
	if detail.Milestones == nil {
		detail.Milestones = []domain.Milestone{}
	}
	for _, d := range recent {
		detail.RecentDonations = append(detail.RecentDonations, summarizeDonation(d))
	}
	return detail, nil
}

// ListMine returns every campaign created by the actor in any status,
// newest first.
func (s *Service) ListMine(ctx context.Context, actor domain.Actor, locale string) ([]Projection, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	views, err := s.store.Campaigns().List(ctx, domain.CampaignFilter{CreatorID: actor.UserID})
	if err != nil {
		return nil, err
	}
	now := s.now()
	format := NewFormatter(locale)
	items := make([]Projection, 0, len(views))
	for _, v := range views {
		items = append(items, Project(v, now, format))
	}
	return items, nil
}

func (f Filter) domainFilter() (domain.CampaignFilter, error) {
	out := domain.CampaignFilter{
		Featured:  f.Featured,
		MinGoal:   f.MinAmount,
		MaxGoal:   f.MaxAmount,
		Search:    strings.TrimSpace(f.Search),
		CreatorID: f.CreatorID,
	}
	switch status := strings.ToLower(strings.TrimSpace(f.Status)); status {
	case "":
		out.Statuses = []domain.CampaignStatus{domain.CampaignStatusActive}
	case StatusAll:
	default:
		st := domain.CampaignStatus(status)
		if !st.Valid() {
			return out, domain.Invalid("unknown status %q", f.Status)
		}
		out.Statuses = []domain.CampaignStatus{st}
	}
	if f.Category != "" {
		c := domain.CampaignCategory(strings.ToLower(f.Category))
		if !c.Valid() {
			return out, domain.Invalid("unknown category %q", f.Category)
		}
		out.Category = c
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return out, domain.Invalid("minAmount must not exceed maxAmount")
	}
	return out, nil
}

type lessFunc func(a, b Projection) bool

// sortOrder returns the comparator for key. Ties fall back to id so the
// order is deterministic.
func sortOrder(key string) (lessFunc, error) {
	byID := func(a, b Projection) bool { return a.ID < b.ID }
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", SortNewest:
		return func(a, b Projection) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return byID(a, b)
		}, nil
	case SortOldest:
		return func(a, b Projection) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return byID(a, b)
		}, nil
	case SortPopular:
		return func(a, b Projection) bool {
			if a.DonorCount != b.DonorCount {
				return a.DonorCount > b.DonorCount
			}
			return byID(a, b)
		}, nil
	case SortProgress:
		return func(a, b Projection) bool {
			if a.Progress != b.Progress {
				return a.Progress > b.Progress
			}
			return byID(a, b)
		}, nil
	case SortGoal:
		return func(a, b Projection) bool {
			if !a.GoalAmount.Equal(b.GoalAmount) {
				return a.GoalAmount.GreaterThan(b.GoalAmount)
			}
			return byID(a, b)
		}, nil
	}
	return nil, domain.Invalid("unknown sort %q", key)
}
