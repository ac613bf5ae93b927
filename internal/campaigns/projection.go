package campaigns

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// TempleSummary is the temple as embedded in a campaign projection.
type TempleSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Location domain.Location `json:"location"`
	Deity    string          `json:"deity,omitempty"`
	Verified bool            `json:"verified"`
}

// CreatorSummary names the campaign creator.
type CreatorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Projection is a campaign with its derived, display-ready fields.
type Projection struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Category        domain.CampaignCategory `json:"category"`
	CategoryLabel   string                  `json:"categoryLabel"`
	GoalAmount      decimal.Decimal         `json:"goalAmount"`
	RaisedAmount    decimal.Decimal         `json:"raisedAmount"`
	RemainingAmount decimal.Decimal         `json:"remainingAmount"`
	Currency        string                  `json:"currency"`
	FormattedGoal   string                  `json:"formattedGoal"`
	FormattedRaised string                  `json:"formattedRaised"`
	DonorCount      int64                   `json:"donorCount"`
	Progress        int64                   `json:"progress"`
	DaysLeft        *int64                  `json:"daysLeft"`
	Status          domain.CampaignStatus   `json:"status"`
	StatusLabel     string                  `json:"statusLabel"`
	Featured        bool                    `json:"featured"`
	Images          []string                `json:"images"`
	Deadline        *time.Time              `json:"deadline"`
	Temple          TempleSummary           `json:"temple"`
	Creator         CreatorSummary          `json:"creator"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// DonationSummary is a public line in a campaign's recent donations.
type DonationSummary struct {
	ID        string          `json:"id"`
	DonorName string          `json:"donorName"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Message   string          `json:"message,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Detail is the single-campaign view.
type Detail struct {
	Projection
	Updates         []domain.CampaignUpdate `json:"updates"`
	Milestones      []domain.Milestone      `json:"milestones"`
	RecentDonations []DonationSummary       `json:"recentDonations"`
}

// Formatter renders labels and amounts for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter returns a formatter for a locale such as "en" or "hi".
// Amounts use Indian digit grouping.
func NewFormatter(locale string) Formatter {
	tag := language.MustParse("en-IN")
	if strings.HasPrefix(strings.ToLower(locale), "hi") {
		tag = language.MustParse("hi-IN")
	}
	return Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		title:   cases.Title(language.English),
	}
}

// Label turns an enum value such as "daily_operations" into a display label
// in the formatter's language.
func (f Formatter) Label(value string) string {
	english := f.title.String(strings.ReplaceAll(value, "_", " "))
	return f.printer.Sprintf(english)
}

// Amount formats a money value with its currency code.
func (f Formatter) Amount(amount decimal.Decimal, code string) string {
	return code + " " + f.printer.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2)))
}

// Project derives the display fields of v at time now.
func Project(v domain.CampaignView, now time.Time, f Formatter) Projection {
	p := Projection{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		Category:        v.Category,
		CategoryLabel:   f.Label(string(v.Category)),
		GoalAmount:      v.GoalAmount,
		RaisedAmount:    v.RaisedAmount,
		RemainingAmount: v.Remaining(),
		Currency:        v.Currency,
		FormattedGoal:   f.Amount(v.GoalAmount, v.Currency),
		FormattedRaised: f.Amount(v.RaisedAmount, v.Currency),
		DonorCount:      v.DonorCount,
		Progress:        v.Progress(),
		Status:          v.Status,
		StatusLabel:     f.Label(string(v.Status)),
		Featured:        v.Featured,
		Images:          v.Images,
		Deadline:        v.Deadline,
		Temple: TempleSummary{
			ID:       v.Temple.ID,
			Name:     v.Temple.Name,
			Location: v.Temple.Location,
			Deity:    v.Temple.Deity,
			Verified: v.Temple.Verified,
		},
		Creator:   CreatorSummary{ID: v.CreatorID, Name: v.CreatorName},
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Creator.Name == "" {
		p.Creator.Name = domain.AnonymousDonorName
	}
	if days, ok := v.DaysLeft(now); ok {
		p.DaysLeft = &days
	}
	return p
}

func summarizeDonation(v domain.DonationView) DonationSummary {
	return DonationSummary{
		ID:        v.ID,
		DonorName: v.DisplayName(),
		Amount:    v.Amount,
		Currency:  v.Currency,
		Message:   v.Message,
		CreatedAt: v.CreatedAt,
	}
}
