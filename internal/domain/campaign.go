package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus enumerates campaign lifecycle states.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusPending, CampaignStatusActive,
		CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	}
	return false
}

// CampaignCategory enumerates what a campaign raises money for.
type CampaignCategory string

const (
	CategoryRenovation     CampaignCategory = "renovation"
	CategoryConstruction   CampaignCategory = "construction"
	CategoryFestival       CampaignCategory = "festival"
	CategoryDailyOperation CampaignCategory = "daily_operations"
	CategoryCharity        CampaignCategory = "charity"
	CategoryEquipment      CampaignCategory = "equipment"
)

// Valid reports whether c is a known category.
func (c CampaignCategory) Valid() bool {
	switch c {
	case CategoryRenovation, CategoryConstruction, CategoryFestival,
		CategoryDailyOperation, CategoryCharity, CategoryEquipment:
		return true
	}
	return false
}

// DefaultCurrency is used when a request does not name one.
const DefaultCurrency = "INR"

// Campaign is the aggregate record of one fundraising effort.
// RaisedAmount and DonorCount are derived from completed donations and are
// only ever incremented by the donation ledger.
type Campaign struct {
	ID           string
	Title        string
	Description  string
	TempleID     string
	CreatorID    string
	Category     CampaignCategory
	GoalAmount   decimal.Decimal
	RaisedAmount decimal.Decimal
	Currency     string
	DonorCount   int64
	Status       CampaignStatus
	Featured     bool
	Images       []string
	Deadline     *time.Time
	Updates      []CampaignUpdate
	Milestones   []Milestone
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CampaignUpdate is a progress post published by the campaign creator.
type CampaignUpdate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Milestone marks a funding threshold within a campaign.
type Milestone struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Achieved    bool            `json:"achieved"`
	AchievedAt  *time.Time      `json:"achievedAt,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// Progress returns round(raised / goal * 100). The value is not clamped and
// exceeds 100 for over-funded campaigns. A non-positive goal yields 0.
func (c Campaign) Progress() int64 {
	if !c.GoalAmount.IsPositive() {
		return 0
	}
	return c.RaisedAmount.Div(c.GoalAmount).Mul(hundred).Round(0).IntPart()
}

// Remaining returns goal - raised; negative once over-funded.
func (c Campaign) Remaining() decimal.Decimal {
	return c.GoalAmount.Sub(c.RaisedAmount)
}

// DaysLeft returns the whole days until the deadline, never below zero.
// The second return value is false when the campaign has no deadline.
func (c Campaign) DaysLeft(now time.Time) (int64, bool) {
	if c.Deadline == nil {
		return 0, false
	}
	remaining := c.Deadline.Sub(now)
	if remaining <= 0 {
		return 0, true
	}
	days := int64(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days, true
}

// Deletable reports whether the campaign can be removed without erasing
// donation history.
func (c Campaign) Deletable() bool {
	return c.RaisedAmount.IsZero()
}
