package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

// CampaignRepositoryPG implements domain.CampaignRepository backed by PostgreSQL.
type CampaignRepositoryPG struct {
	base
}

// Create inserts the campaign together with its milestones.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.Campaign) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Currency == "" {
		c.Currency = domain.DefaultCurrency
	}
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		row := tx.QueryRow(ctx, sqlinline.QInsertCampaign,
			c.ID,
			c.Title,
			c.Description,
			c.TempleID,
			c.CreatorID,
			string(c.Category),
			c.GoalAmount.String(),
			c.Currency,
			string(c.Status),
			c.Featured,
			nonNilStrings(c.Images),
			c.Deadline,
		)
		if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		for i := range c.Milestones {
			m := &c.Milestones[i]
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if _, err := tx.Exec(ctx, sqlinline.QInsertMilestone,
				m.ID, c.ID, m.Amount.String(), m.Description, m.Achieved, m.AchievedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("insert campaign", "campaign", err)
}

// Get fetches the campaign row without child records.
func (r *CampaignRepositoryPG) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("campaign")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()
	c, err := scanCampaign(r.db.QueryRow(ctx, sqlinline.QGetCampaign, id))
	return c, storeErr("get campaign", "campaign", err)
}

// GetView fetches the campaign joined with temple, creator, updates and milestones.
func (r *CampaignRepositoryPG) GetView(ctx context.Context, id string) (*domain.CampaignView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("campaign")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()
	view, err := scanCampaignView(r.db.QueryRow(ctx, sqlinline.QGetCampaignView, id))
	if err != nil {
		return nil, storeErr("get campaign view", "campaign", err)
	}
	if view.Updates, err = r.listUpdates(ctx, id); err != nil {
		return nil, storeErr("list campaign updates", "campaign", err)
	}
	if view.Milestones, err = r.listMilestones(ctx, id); err != nil {
		return nil, storeErr("list campaign milestones", "campaign", err)
	}
	return view, nil
}

// List returns campaign views matching filter ordered newest first.
func (r *CampaignRepositoryPG) List(ctx context.Context, filter domain.CampaignFilter) ([]domain.CampaignView, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	rows, err := r.db.Query(ctx, sqlinline.QListCampaignViews,
		statuses,
		string(filter.Category),
		filter.Featured,
		optionalDecimal(filter.MinGoal),
		optionalDecimal(filter.MaxGoal),
		searchPattern(filter.Search),
		filter.CreatorID,
	)
	if err != nil {
		return nil, storeErr("list campaigns", "campaign", err)
	}
	defer rows.Close()

	items := []domain.CampaignView{}
	for rows.Next() {
		view, err := scanCampaignView(rows)
		if err != nil {
			return nil, storeErr("scan campaign", "campaign", err)
		}
		items = append(items, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list campaigns", "campaign", err)
	}
	return items, nil
}

// Update writes the editable fields of c. Status and aggregates are untouched.
func (r *CampaignRepositoryPG) Update(ctx context.Context, c *domain.Campaign) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	row := r.db.QueryRow(ctx, sqlinline.QUpdateCampaign,
		c.ID,
		c.Title,
		c.Description,
		string(c.Category),
		c.GoalAmount.String(),
		nonNilStrings(c.Images),
		c.Deadline,
	)
	return storeErr("update campaign", "campaign", row.Scan(&c.UpdatedAt))
}

// SetStatus moves the campaign from one status to another. The write only
// applies while the stored status still equals from.
func (r *CampaignRepositoryPG) SetStatus(ctx context.Context, id string, from, to domain.CampaignStatus) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, sqlinline.QSetCampaignStatus, id, string(from), string(to))
	if err != nil {
		return storeErr("set campaign status", "campaign", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := scanCampaign(r.db.QueryRow(ctx, sqlinline.QGetCampaign, id)); err != nil {
			return storeErr("get campaign", "campaign", err)
		}
		return domain.Conflict("campaign status changed concurrently")
	}
	return nil
}

// SetFeatured toggles the featured flag.
func (r *CampaignRepositoryPG) SetFeatured(ctx context.Context, id string, featured bool) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, sqlinline.QSetCampaignFeatured, id, featured)
	if err != nil {
		return storeErr("set campaign featured", "campaign", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("campaign")
	}
	return nil
}

// DeleteUnfunded removes a campaign that has raised nothing, along with its
// unpaid donation intents. A funded campaign is left untouched.
func (r *CampaignRepositoryPG) DeleteUnfunded(ctx context.Context, id string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		if _, err := tx.Exec(ctx, sqlinline.QPurgeUnfundedCampaignIntents, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sqlinline.QDeleteUnfundedCampaign, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		if _, err := scanCampaign(tx.QueryRow(ctx, sqlinline.QGetCampaign, id)); err != nil {
			return err
		}
		return domain.ErrCampaignFunded
	})
	return storeErr("delete campaign", "campaign", err)
}

// AddUpdate appends a progress post to the campaign.
func (r *CampaignRepositoryPG) AddUpdate(ctx context.Context, campaignID string, update *domain.CampaignUpdate) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	row := r.db.QueryRow(ctx, sqlinline.QInsertCampaignUpdate,
		update.ID, campaignID, update.Title, update.Description, nonNilStrings(update.Images),
	)
	err := row.Scan(&update.CreatedAt)
	if infra.IsForeignKeyViolation(err) {
		return domain.NotFound("campaign")
	}
	return storeErr("insert campaign update", "campaign update", err)
}

// CountByCreator counts campaigns created by the user.
func (r *CampaignRepositoryPG) CountByCreator(ctx context.Context, creatorID string) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var n int64
	err := r.db.QueryRow(ctx, sqlinline.QCountCampaignsByCreator, creatorID).Scan(&n)
	return n, storeErr("count campaigns", "campaign", err)
}

func (r *CampaignRepositoryPG) listUpdates(ctx context.Context, campaignID string) ([]domain.CampaignUpdate, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCampaignUpdates, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	updates := []domain.CampaignUpdate{}
	for rows.Next() {
		var u domain.CampaignUpdate
		if err := rows.Scan(&u.ID, &u.Title, &u.Description, &u.Images, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (r *CampaignRepositoryPG) listMilestones(ctx context.Context, campaignID string) ([]domain.Milestone, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCampaignMilestones, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	milestones := []domain.Milestone{}
	for rows.Next() {
		var (
			m      domain.Milestone
			amount string
		)
		if err := rows.Scan(&m.ID, &amount, &m.Description, &m.Achieved, &m.AchievedAt); err != nil {
			return nil, err
		}
		if m.Amount, err = parseDecimal("milestone amount", amount); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

type campaignRaw struct {
	category string
	status   string
	goal     string
	raised   string
	deadline *time.Time
}

func campaignDest(c *domain.Campaign, raw *campaignRaw) []any {
	return []any{
		&c.ID,
		&c.Title,
		&c.Description,
		&c.TempleID,
		&c.CreatorID,
		&raw.category,
		&raw.goal,
		&raw.raised,
		&c.Currency,
		&c.DonorCount,
		&raw.status,
		&c.Featured,
		&c.Images,
		&raw.deadline,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func (raw campaignRaw) apply(c *domain.Campaign) error {
	var err error
	c.Category = domain.CampaignCategory(raw.category)
	c.Status = domain.CampaignStatus(raw.status)
	c.Deadline = raw.deadline
	if c.GoalAmount, err = parseDecimal("goal_amount", raw.goal); err != nil {
		return err
	}
	if c.RaisedAmount, err = parseDecimal("raised_amount", raw.raised); err != nil {
		return err
	}
	return nil
}

func scanCampaign(row scanner) (*domain.Campaign, error) {
	var (
		c   domain.Campaign
		raw campaignRaw
	)
	if err := row.Scan(campaignDest(&c, &raw)...); err != nil {
		return nil, err
	}
	if err := raw.apply(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCampaignView(row scanner) (*domain.CampaignView, error) {
	var (
		view domain.CampaignView
		raw  campaignRaw
	)
	dest := campaignDest(&view.Campaign, &raw)
	dest = append(dest, templeDest(&view.Temple)...)
	dest = append(dest, &view.CreatorName, &view.CreatorEmail)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.apply(&view.Campaign); err != nil {
		return nil, err
	}
	return &view, nil
}
