package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/accounts"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

type campaignRefDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

type donationHistoryDTO struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Anonymous        bool            `json:"anonymous"`
	Message          string          `json:"message,omitempty"`
	PaymentMethod    string          `json:"paymentMethod"`
	ReceiptGenerated bool            `json:"receiptGenerated"`
	TaxDeductible    bool            `json:"taxDeductible"`
	Campaign         campaignRefDTO  `json:"campaign"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func (a *App) UserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	actor := a.actor(r)
	stats, err := a.Accounts.Stats(ctx, actor)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.Accounts.Profile(ctx, actor)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":          true,
		"totalDonated":     stats.TotalDonated,
		"donationCount":    stats.DonationCount,
		"campaignsCreated": stats.CampaignsCreated,
		"user":             profileDTO(*user),
	})
}

func (a *App) UserDonations(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", accounts.DefaultPageSize)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	result, err := a.Accounts.Donations(ctx, a.actor(r), page, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]donationHistoryDTO, 0, len(result.Donations))
	for _, d := range result.Donations {
		items = append(items, donationHistoryDTO{
			ID:               d.ID,
			Amount:           d.Amount,
			Currency:         d.Currency,
			Status:           string(d.Status),
			Anonymous:        d.Anonymous,
			Message:          d.Message,
			PaymentMethod:    string(d.PaymentMethod),
			ReceiptGenerated: d.ReceiptGenerated,
			TaxDeductible:    d.TaxDeductible,
			Campaign:         campaignRefDTO{ID: d.CampaignID, Title: d.CampaignTitle, Image: d.CampaignImage},
			CreatedAt:        d.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"donations":  items,
		"pagination": result.Pagination,
	})
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, domain.Invalid("%s must be a positive integer", key)
	}
	return n, nil
}
