// Package memory implements domain.Store in process. It backs mock mode and
// the service and handler tests. Every operation runs under one mutex, so a
// donation and its aggregate increments are applied as a single unit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// Store keeps every record in maps guarded by mu.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users     map[string]*domain.User
	emails    map[string]string
	temples   map[string]*domain.Temple
	campaigns map[string]*domain.Campaign
	donations map[string]*domain.Donation
	byOrder   map[string]string
	byPayment map[string]string

	// receiptTries maps a donation id to the sequence number of its latest
	// failed receipt delivery.
	receiptTries map[string]int64
	receiptSeq   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:       func() time.Time { return time.Now().UTC() },
		users:     map[string]*domain.User{},
		emails:    map[string]string{},
		temples:   map[string]*domain.Temple{},
		campaigns: map[string]*domain.Campaign{},
		donations: map[string]*domain.Donation{},
		byOrder:   map[string]string{},
		byPayment: map[string]string{},

		receiptTries: map[string]int64{},
	}
}

func (s *Store) Campaigns() domain.CampaignRepository { return campaignRepo{s} }
func (s *Store) Temples() domain.TempleRepository     { return templeRepo{s} }
func (s *Store) Users() domain.UserRepository         { return userRepo{s} }
func (s *Store) Donations() domain.DonationRepository { return donationRepo{s} }
func (s *Store) Ledger() domain.LedgerRepository      { return ledgerRepo{s} }

// Ping reports a cancelled context like the database adapter would.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.Persistence("ping", err)
	}
	return nil
}

// lock acquires the store mutex unless ctx is already done.
func (s *Store) lock(ctx context.Context, op string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, domain.Persistence(op, err)
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

var _ domain.Store = (*Store)(nil)

// users

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	unlock, err := r.s.lock(ctx, "insert user")
	defer unlock()
	if err != nil {
		return err
	}
	email := normalizeEmail(user.Email)
	if _, taken := r.s.emails[email]; taken {
		return domain.Conflict("user already exists")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleDonor
	}
	now := r.s.now()
	user.Email = email
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.s.users[stored.ID] = &stored
	r.s.emails[email] = stored.ID
	return nil
}

func (r userRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	unlock, err := r.s.lock(ctx, "get user")
	defer unlock()
	if err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound("user")
	}
	out := *u
	return &out, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	unlock, err := r.s.lock(ctx, "get user by email")
	defer unlock()
	if err != nil {
		return nil, err
	}
	id, ok := r.s.emails[normalizeEmail(email)]
	if !ok {
		return nil, domain.NotFound("user")
	}
	out := *r.s.users[id]
	return &out, nil
}

// guestAccount returns the account registered under g.Email, creating a
// donor account when none exists. Callers hold mu.
func (s *Store) guestAccount(g domain.Guest) *domain.User {
	email := normalizeEmail(g.Email)
	if id, ok := s.emails[email]; ok {
		return s.users[id]
	}
	now := s.now()
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      g.Name,
		Email:     email,
		Role:      domain.UserRoleDonor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return u
}

func (r userRepo) SetRole(ctx context.Context, id string, role domain.UserRole) error {
	unlock, err := r.s.lock(ctx, "set user role")
	defer unlock()
	if err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return domain.NotFound("user")
	}
	u.Role = role
	u.UpdatedAt = r.s.now()
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// temples

type templeRepo struct{ s *Store }

func (r templeRepo) FindOrCreate(ctx context.Context, temple *domain.Temple) (*domain.Temple, error) {
	unlock, err := r.s.lock(ctx, "find or create temple")
	defer unlock()
	if err != nil {
		return nil, err
	}
	for _, t := range r.s.temples {
		if t.Name == temple.Name && t.Location.Address == temple.Location.Address {
			return cloneTemple(t), nil
		}
	}
	if temple.AdminID != "" {
		if _, ok := r.s.users[temple.AdminID]; !ok {
			return nil, domain.NotFound("referenced record")
		}
	}
	stored := cloneTemple(temple)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := r.s.now()
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.s.temples[stored.ID] = stored
	return cloneTemple(stored), nil
}

func (r templeRepo) Get(ctx context.Context, id string) (*domain.Temple, error) {
	unlock, err := r.s.lock(ctx, "get temple")
	defer unlock()
	if err != nil {
		return nil, err
	}
	t, ok := r.s.temples[id]
	if !ok {
		return nil, domain.NotFound("temple")
	}
	return cloneTemple(t), nil
}

func cloneTemple(t *domain.Temple) *domain.Temple {
	out := *t
	out.Images = append([]string{}, t.Images...)
	return &out
}

// campaigns

type campaignRepo struct{ s *Store }

func (r campaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	unlock, err := r.s.lock(ctx, "insert campaign")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.temples[c.TempleID]; !ok {
		return domain.NotFound("referenced record")
	}
	if _, ok := r.s.users[c.CreatorID]; !ok {
		return domain.NotFound("referenced record")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.s.campaigns[c.ID]; exists {
		return domain.Conflict("campaign already exists")
	}
	if c.Currency == "" {
		c.Currency = domain.DefaultCurrency
	}
	for i := range c.Milestones {
		if c.Milestones[i].ID == "" {
			c.Milestones[i].ID = uuid.NewString()
		}
	}
	now := r.s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	c.RaisedAmount = decimal.Zero
	c.DonorCount = 0
	r.s.campaigns[c.ID] = cloneCampaign(c)
	return nil
}

func (r campaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	unlock, err := r.s.lock(ctx, "get campaign")
	defer unlock()
	if err != nil {
		return nil, err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, domain.NotFound("campaign")
	}
	out := cloneCampaign(c)
	out.Updates, out.Milestones = nil, nil
	return out, nil
}

func (r campaignRepo) GetView(ctx context.Context, id string) (*domain.CampaignView, error) {
	unlock, err := r.s.lock(ctx, "get campaign view")
	defer unlock()
	if err != nil {
		return nil, err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, domain.NotFound("campaign")
	}
	view := r.s.view(c)
	sort.SliceStable(view.Updates, func(i, j int) bool {
		a, b := view.Updates[i], view.Updates[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	sort.SliceStable(view.Milestones, func(i, j int) bool {
		a, b := view.Milestones[i], view.Milestones[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.LessThan(b.Amount)
		}
		return a.ID < b.ID
	})
	return &view, nil
}

func (r campaignRepo) List(ctx context.Context, filter domain.CampaignFilter) ([]domain.CampaignView, error) {
	unlock, err := r.s.lock(ctx, "list campaigns")
	defer unlock()
	if err != nil {
		return nil, err
	}
	items := []domain.CampaignView{}
	for _, c := range r.s.campaigns {
		view := r.s.view(c)
		if !matches(view, filter) {
			continue
		}
		view.Updates, view.Milestones = nil, nil
		items = append(items, view)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return items, nil
}

func (r campaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	unlock, err := r.s.lock(ctx, "update campaign")
	defer unlock()
	if err != nil {
		return err
	}
	stored, ok := r.s.campaigns[c.ID]
	if !ok {
		return domain.NotFound("campaign")
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.Category = c.Category
	stored.GoalAmount = c.GoalAmount
	stored.Images = append([]string{}, c.Images...)
	stored.Deadline = cloneTime(c.Deadline)
	stored.UpdatedAt = r.s.now()
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r campaignRepo) SetStatus(ctx context.Context, id string, from, to domain.CampaignStatus) error {
	unlock, err := r.s.lock(ctx, "set campaign status")
	defer unlock()
	if err != nil {
		return err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return domain.NotFound("campaign")
	}
	if c.Status != from {
		return domain.Conflict("campaign status changed concurrently")
	}
	c.Status = to
	c.UpdatedAt = r.s.now()
	return nil
}

func (r campaignRepo) SetFeatured(ctx context.Context, id string, featured bool) error {
	unlock, err := r.s.lock(ctx, "set campaign featured")
	defer unlock()
	if err != nil {
		return err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return domain.NotFound("campaign")
	}
	c.Featured = featured
	c.UpdatedAt = r.s.now()
	return nil
}

func (r campaignRepo) DeleteUnfunded(ctx context.Context, id string) error {
	unlock, err := r.s.lock(ctx, "delete campaign")
	defer unlock()
	if err != nil {
		return err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return domain.NotFound("campaign")
	}
	if !c.RaisedAmount.IsZero() {
		return domain.ErrCampaignFunded
	}
	for did, d := range r.s.donations {
		if d.CampaignID != id || d.Status == domain.DonationStatusCompleted {
			continue
		}
		delete(r.s.byOrder, d.OrderID)
		delete(r.s.byPayment, d.PaymentID)
		delete(r.s.donations, did)
	}
	delete(r.s.campaigns, id)
	return nil
}

func (r campaignRepo) AddUpdate(ctx context.Context, campaignID string, update *domain.CampaignUpdate) error {
	unlock, err := r.s.lock(ctx, "insert campaign update")
	defer unlock()
	if err != nil {
		return err
	}
	c, ok := r.s.campaigns[campaignID]
	if !ok {
		return domain.NotFound("campaign")
	}
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	update.CreatedAt = r.s.now()
	stored := *update
	stored.Images = append([]string{}, update.Images...)
	c.Updates = append(c.Updates, stored)
	return nil
}

func (r campaignRepo) CountByCreator(ctx context.Context, creatorID string) (int64, error) {
	unlock, err := r.s.lock(ctx, "count campaigns")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, c := range r.s.campaigns {
		if c.CreatorID == creatorID {
			n++
		}
	}
	return n, nil
}

// view joins c with its temple and creator. Callers hold mu.
func (s *Store) view(c *domain.Campaign) domain.CampaignView {
	view := domain.CampaignView{Campaign: *cloneCampaign(c)}
	if t, ok := s.temples[c.TempleID]; ok {
		view.Temple = *cloneTemple(t)
	}
	if u, ok := s.users[c.CreatorID]; ok {
		view.CreatorName, view.CreatorEmail = u.Name, u.Email
	}
	return view
}

func matches(v domain.CampaignView, f domain.CampaignFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if v.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Category != "" && v.Category != f.Category {
		return false
	}
	if f.Featured != nil && v.Featured != *f.Featured {
		return false
	}
	if f.MinGoal != nil && v.GoalAmount.LessThan(*f.MinGoal) {
		return false
	}
	if f.MaxGoal != nil && v.GoalAmount.GreaterThan(*f.MaxGoal) {
		return false
	}
	if f.CreatorID != "" && v.CreatorID != f.CreatorID {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(v.Title), term) &&
			!strings.Contains(strings.ToLower(v.Description), term) &&
			!strings.Contains(strings.ToLower(v.Temple.Name), term) {
			return false
		}
	}
	return true
}

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	out := *c
	out.Images = append([]string{}, c.Images...)
	out.Deadline = cloneTime(c.Deadline)
	out.Updates = make([]domain.CampaignUpdate, len(c.Updates))
	for i, u := range c.Updates {
		u.Images = append([]string{}, u.Images...)
		out.Updates[i] = u
	}
	out.Milestones = make([]domain.Milestone, len(c.Milestones))
	for i, m := range c.Milestones {
		m.AchievedAt = cloneTime(m.AchievedAt)
		out.Milestones[i] = m
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
