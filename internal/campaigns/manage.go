package campaigns

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// TempleInput names the temple a new campaign raises money for. A temple
// with the same name and address is reused.
type TempleInput struct {
	Name        string
	Description string
	Address     string
	City        string
	State       string
	Pincode     string
	Deity       string
}

// MilestoneInput is a funding threshold declared at creation.
type MilestoneInput struct {
	Amount      decimal.Decimal
	Description string
}

// CreateInput holds the fields of a new campaign.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	GoalAmount  decimal.Decimal
	Deadline    *time.Time
	Images      []string
	Temple      TempleInput
	Milestones  []MilestoneInput
	// Draft keeps the campaign private to its creator until submitted.
	Draft bool
}

// Patch lists the editable fields of a campaign. Nil fields are left
// unchanged. Status is changed only through the lifecycle operations.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	GoalAmount  *decimal.Decimal
	Deadline    *time.Time
	Images      []string
}

// UpdateInput is a progress post.
type UpdateInput struct {
	Title       string
	Description string
	Images      []string
}

// Create validates in, finds or creates its temple and stores the campaign
// as pending, or as draft when requested.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*Detail, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	category, err := validateCreate(in, s.now())
	if err != nil {
		return nil, err
	}

	temple, err := s.store.Temples().FindOrCreate(ctx, &domain.Temple{
		Name:        strings.TrimSpace(in.Temple.Name),
		Description: templeDescription(in.Temple),
		Location: domain.Location{
			Address: strings.TrimSpace(in.Temple.Address),
			City:    strings.TrimSpace(in.Temple.City),
			State:   strings.TrimSpace(in.Temple.State),
			Pincode: strings.TrimSpace(in.Temple.Pincode),
		},
		Deity:   strings.TrimSpace(in.Temple.Deity),
		AdminID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	status := domain.CampaignStatusPending
	if in.Draft {
		status = domain.CampaignStatusDraft
	}
	c := &domain.Campaign{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		TempleID:     temple.ID,
		CreatorID:    actor.UserID,
		Category:     category,
		GoalAmount:   in.GoalAmount,
		RaisedAmount: decimal.Zero,
		Currency:     domain.DefaultCurrency,
		Status:       status,
		Images:       cleanImages(in.Images),
		Deadline:     in.Deadline,
	}
	for _, m := range in.Milestones {
		c.Milestones = append(c.Milestones, domain.Milestone{Amount: m.Amount, Description: strings.TrimSpace(m.Description)})
	}
	if err := s.store.Campaigns().Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("campaign_id", c.ID).Str("creator_id", actor.UserID).Str("status", string(status)).Msg("campaign created")
	return s.Get(ctx, c.ID, "")
}

// Update applies patch to a campaign owned by the actor.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, patch Patch) (*Detail, error) {
	c, err := s.owned(ctx, actor, id, "You can only update your own campaigns")
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if c.Title = strings.TrimSpace(*patch.Title); c.Title == "" {
			return nil, domain.Invalid("title must not be empty")
		}
	}
	if patch.Description != nil {
		if c.Description = strings.TrimSpace(*patch.Description); c.Description == "" {
			return nil, domain.Invalid("description must not be empty")
		}
	}
	if patch.Category != nil {
		category := domain.CampaignCategory(strings.ToLower(*patch.Category))
		if !category.Valid() {
			return nil, domain.Invalid("unknown category %q", *patch.Category)
		}
		c.Category = category
	}
	if patch.GoalAmount != nil {
		if !patch.GoalAmount.IsPositive() {
			return nil, domain.Invalid("goalAmount must be positive")
		}
		for _, m := range c.Milestones {
			if m.Amount.GreaterThan(*patch.GoalAmount) {
				return nil, domain.Invalid("goalAmount must cover milestone %s", m.Amount.String())
			}
		}
		c.GoalAmount = *patch.GoalAmount
	}
	if patch.Deadline != nil {
		if !patch.Deadline.After(s.now()) {
			return nil, domain.Invalid("deadline must be in the future")
		}
		c.Deadline = patch.Deadline
	}
	if patch.Images != nil {
		c.Images = cleanImages(patch.Images)
	}
	if err := s.store.Campaigns().Update(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("campaign_id", id).Msg("campaign updated")
	return s.Get(ctx, id, "")
}

// Delete removes an unfunded campaign owned by the actor. A campaign that
// has raised money is rejected and left unchanged; the storage delete
// re-checks the guard.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	c, err := s.owned(ctx, actor, id, "You can only delete your own campaigns")
	if err != nil {
		return err
	}
	if !c.Deletable() {
		return domain.ErrCampaignFunded
	}
	if err := s.store.Campaigns().DeleteUnfunded(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", id).Msg("campaign deleted")
	return nil
}

// Submit moves a draft owned by the actor to pending review.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, id string) error {
	c, err := s.owned(ctx, actor, id, "You can only submit your own campaigns")
	if err != nil {
		return err
	}
	return s.move(ctx, c, domain.CampaignStatusPending)
}

// Transition applies an administrative lifecycle change.
func (s *Service) Transition(ctx context.Context, actor domain.Actor, id string, to domain.CampaignStatus) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("only administrators can change campaign status")
	}
	c, err := s.store.Campaigns().Get(ctx, id)
	if err != nil {
		return err
	}
	return s.move(ctx, c, to)
}

// SetFeatured toggles whether a campaign is featured. Administrators only.
func (s *Service) SetFeatured(ctx context.Context, actor domain.Actor, id string, featured bool) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("only administrators can feature campaigns")
	}
	if err := s.store.Campaigns().SetFeatured(ctx, id, featured); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", id).Bool("featured", featured).Msg("campaign featured flag changed")
	return nil
}

// PostUpdate publishes a progress update on a campaign owned by the actor.
func (s *Service) PostUpdate(ctx context.Context, actor domain.Actor, id string, in UpdateInput) (*domain.CampaignUpdate, error) {
	if _, err := s.owned(ctx, actor, id, "You can only post updates to your own campaigns"); err != nil {
		return nil, err
	}
	update := &domain.CampaignUpdate{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Images:      cleanImages(in.Images),
	}
	if update.Title == "" || update.Description == "" {
		return nil, domain.Invalid("title and description are required")
	}
	if err := s.store.Campaigns().AddUpdate(ctx, id, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *Service) move(ctx context.Context, c *domain.Campaign, to domain.CampaignStatus) error {
	if err := domain.CheckTransition(c.Status, to); err != nil {
		return err
	}
	if err := s.store.Campaigns().SetStatus(ctx, c.ID, c.Status, to); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", c.ID).Str("from", string(c.Status)).Str("to", string(to)).Msg("campaign status changed")
	return nil
}

// owned loads a campaign and checks that the actor created it.
func (s *Service) owned(ctx context.Context, actor domain.Actor, id, denied string) (*domain.Campaign, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.store.Campaigns().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != actor.UserID {
		return nil, domain.Forbidden(denied)
	}
	return c, nil
}

func validateCreate(in CreateInput, now time.Time) (domain.CampaignCategory, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Temple.Name) == "" || strings.TrimSpace(in.Temple.Address) == "" {
		return "", domain.Invalid("title, description, templeName and templeLocation are required")
	}
	category := domain.CampaignCategory(strings.ToLower(strings.TrimSpace(in.Category)))
	if !category.Valid() {
		return "", domain.Invalid("unknown category %q", in.Category)
	}
	if !in.GoalAmount.IsPositive() {
		return "", domain.Invalid("goalAmount must be positive")
	}
	if in.Deadline != nil && !in.Deadline.After(now) {
		return "", domain.Invalid("deadline must be in the future")
	}
	for _, m := range in.Milestones {
		if !m.Amount.IsPositive() || m.Amount.GreaterThan(in.GoalAmount) {
			return "", domain.Invalid("milestone amounts must be positive and within the goal")
		}
	}
	return category, nil
}

func templeDescription(t TempleInput) string {
	if d := strings.TrimSpace(t.Description); d != "" {
		return d
	}
	deity := strings.TrimSpace(t.Deity)
	if deity == "" {
		deity = "divine worship"
	}
	return "Temple dedicated to " + deity
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}
