package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/campaigns"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/middleware"
)

type milestoneRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type createCampaignRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Category       string             `json:"category"`
	GoalAmount     decimal.Decimal    `json:"goalAmount"`
	Deadline       *time.Time         `json:"deadline"`
	Images         []string           `json:"images"`
	TempleName     string             `json:"templeName"`
	TempleLocation string             `json:"templeLocation"`
	TempleCity     string             `json:"templeCity"`
	TempleState    string             `json:"templeState"`
	TemplePincode  string             `json:"templePincode"`
	TempleDeity    string             `json:"templeDeity"`
	Milestones     []milestoneRequest `json:"milestones"`
	Draft          bool               `json:"draft"`
}

func (req *createCampaignRequest) Validate() error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Category) == "" || req.GoalAmount.IsZero() ||
		strings.TrimSpace(req.TempleName) == "" || strings.TrimSpace(req.TempleLocation) == "" {
		return domain.Invalid("missing required fields")
	}
	return nil
}

func (req *createCampaignRequest) input() campaigns.CreateInput {
	in := campaigns.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
		Deadline:    req.Deadline,
		Images:      req.Images,
		Temple: campaigns.TempleInput{
			Name:    req.TempleName,
			Address: req.TempleLocation,
			City:    req.TempleCity,
			State:   req.TempleState,
			Pincode: req.TemplePincode,
			Deity:   req.TempleDeity,
		},
		Draft: req.Draft,
	}
	for _, m := range req.Milestones {
		in.Milestones = append(in.Milestones, campaigns.MilestoneInput{Amount: m.Amount, Description: m.Description})
	}
	return in
}

type updateCampaignRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	GoalAmount  *decimal.Decimal `json:"goalAmount"`
	Deadline    *time.Time       `json:"deadline"`
	Images      []string         `json:"images"`
	Status      *string          `json:"status"`
}

func (req *updateCampaignRequest) Validate() error {
	if req.Status != nil {
		return domain.Invalid("status cannot be edited, use the lifecycle endpoints")
	}
	if req.Title == nil && req.Description == nil && req.Category == nil &&
		req.GoalAmount == nil && req.Deadline == nil && req.Images == nil {
		return domain.Invalid("no fields to update")
	}
	return nil
}

type postUpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (req *postUpdateRequest) Validate() error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return domain.Invalid("title and description are required")
	}
	return nil
}

type statusRequest struct {
	Status string `json:"status"`
}

func (req *statusRequest) Validate() error {
	if !domain.CampaignStatus(req.Status).Valid() {
		return domain.Invalid("unknown status %q", req.Status)
	}
	return nil
}

type featuredRequest struct {
	Featured *bool `json:"featured"`
}

func (req *featuredRequest) Validate() error {
	if req.Featured == nil {
		return domain.Invalid("featured is required")
	}
	return nil
}

func (a *App) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	items, err := a.Campaigns.List(ctx, filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"campaigns": items,
		"count":     len(items),
	})
}

func (a *App) MyCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	items, err := a.Campaigns.ListMine(ctx, a.actor(r), middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"campaigns": items,
		"count":     len(items),
	})
}

func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	detail, err := a.Campaigns.Get(ctx, chi.URLParam(r, "id"), middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "campaign": detail})
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	detail, err := a.Campaigns.Create(ctx, a.actor(r), req.input())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Campaign created successfully and is pending approval",
		"campaign": detail,
	})
}

func (a *App) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	detail, err := a.Campaigns.Update(ctx, a.actor(r), chi.URLParam(r, "id"), campaigns.Patch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
		Deadline:    req.Deadline,
		Images:      req.Images,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Campaign updated successfully",
		"campaign": detail,
	})
}

func (a *App) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	if err := a.Campaigns.Delete(ctx, a.actor(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "Campaign deleted successfully"})
}

func (a *App) SubmitCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	id := chi.URLParam(r, "id")
	if err := a.Campaigns.Submit(ctx, a.actor(r), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "id": id, "status": domain.CampaignStatusPending})
}

func (a *App) PostCampaignUpdate(w http.ResponseWriter, r *http.Request) {
	var req postUpdateRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	update, err := a.Campaigns.PostUpdate(ctx, a.actor(r), chi.URLParam(r, "id"), campaigns.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"success": true, "update": update})
}

func (a *App) SetCampaignStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	id := chi.URLParam(r, "id")
	if err := a.Campaigns.Transition(ctx, a.actor(r), id, domain.CampaignStatus(req.Status)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "id": id, "status": req.Status})
}

func (a *App) SetCampaignFeatured(w http.ResponseWriter, r *http.Request) {
	var req featuredRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	id := chi.URLParam(r, "id")
	if err := a.Campaigns.SetFeatured(ctx, a.actor(r), id, *req.Featured); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "id": id, "featured": *req.Featured})
}

func parseFilter(r *http.Request) (campaigns.Filter, error) {
	q := r.URL.Query()
	f := campaigns.Filter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Locale:   middleware.LocaleFromContext(r.Context()),
	}
	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.Invalid("featured must be true or false")
		}
		f.Featured = &featured
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return f, domain.Invalid("limit must be a positive integer")
		}
		f.Limit = limit
	}
	for key, dst := range map[string]**decimal.Decimal{"minAmount": &f.MinAmount, "maxAmount": &f.MaxAmount} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		amount, err := decimal.NewFromString(v)
		if err != nil || amount.IsNegative() {
			return f, domain.Invalid("%s must be a non-negative number", key)
		}
		*dst = &amount
	}
	return f, nil
}
