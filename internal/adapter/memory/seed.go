package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// Demo accounts created by Seed. Every account uses DemoPassword.
const (
	DemoPassword     = "password123"
	DemoDonorEmail   = "john@example.com"
	DemoCreatorEmail = "jane@example.com"
	DemoAdminEmail   = "admin@temple.com"
	DemoUserEmail    = "user@temple.com"
)

var seedNamespace = uuid.MustParse("6f1c2a7e-3b0d-4c55-9a7e-5d2f8b1e4c90")

// SeedID returns the stable id of the n-th seeded record of kind
// ("user", "temple", "campaign", "donation", "update" or "milestone").
func SeedID(kind string, n int) string {
	return uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s/%d", kind, n))).String()
}

type seedCampaign struct {
	title       string
	description string
	temple      int
	category    domain.CampaignCategory
	goal        int64
	raised      int64
	donors      int64
	featured    bool
	image       string
	deadlineIn  int
	createdAgo  int
	updates     []seedUpdate
	milestones  []seedMilestone
}

type seedUpdate struct {
	title       string
	description string
	ago         int
}

type seedMilestone struct {
	amount      int64
	description string
}

type seedDonation struct {
	campaign int
	amount   int64
	message  string
	ago      int
}

var seedTemples = []domain.Temple{
	{
		Name:        "Shri Kashi Vishwanath Temple",
		Description: "Ancient temple dedicated to Lord Shiva",
		Location:    domain.Location{Address: "Vishwanath Gali, Varanasi", City: "Varanasi", State: "Uttar Pradesh", Pincode: "221001"},
		Deity:       "Lord Shiva",
		Verified:    true,
		Images:      []string{"https://upload.wikimedia.org/wikipedia/commons/3/3a/Kashi_Vishwanath_Temple.jpg"},
	},
	{
		Name:        "Tirumala Venkateswara Temple",
		Description: "Sacred temple of Lord Venkateswara",
		Location:    domain.Location{Address: "Tirumala, Tirupati", City: "Tirupati", State: "Andhra Pradesh", Pincode: "517504"},
		Deity:       "Lord Venkateswara",
		Verified:    true,
		Images:      []string{"https://upload.wikimedia.org/wikipedia/commons/7/79/Tirumala_temple.jpg"},
	},
	{
		Name:     "Shri Ram Temple",
		Location: domain.Location{Address: "Village Road, Rural Area", City: "Rural District", State: "Uttar Pradesh"},
		Deity:    "Lord Rama",
	},
}

var seedCampaigns = []seedCampaign{
	{
		title:       "Renovate Ancient Shiva Temple",
		description: "Help restore the beautiful ancient Shiva temple that has been serving the community for over 500 years. The temple needs urgent repairs to its roof and walls.",
		temple:      0,
		category:    domain.CategoryRenovation,
		goal:        500000,
		raised:      250000,
		donors:      45,
		featured:    true,
		image:       "https://upload.wikimedia.org/wikipedia/commons/3/3a/Kashi_Vishwanath_Temple.jpg",
		deadlineIn:  30,
		createdAgo:  10,
		updates: []seedUpdate{
			{title: "Foundation Work Completed", description: "The foundation repair work has been completed successfully. Next phase will focus on roof restoration.", ago: 5},
			{title: "Community Support Growing", description: "We are overwhelmed by the community response. Thank you for your generous contributions!", ago: 2},
		},
		milestones: []seedMilestone{
			{amount: 125000, description: "Foundation repair"},
			{amount: 375000, description: "Roof restoration"},
		},
	},
	{
		title:       "Temple Festival Celebration",
		description: "Support the annual temple festival that brings together thousands of devotees. Funds will be used for decorations, food, and cultural programs.",
		temple:      1,
		category:    domain.CategoryFestival,
		goal:        200000,
		raised:      150000,
		donors:      28,
		featured:    true,
		image:       "https://upload.wikimedia.org/wikipedia/commons/7/79/Tirumala_temple.jpg",
		deadlineIn:  15,
		createdAgo:  7,
		updates: []seedUpdate{
			{title: "Festival Preparations Begin", description: "The festival committee has started preparations. Decorations and arrangements are underway.", ago: 3},
		},
	},
	{
		title:       "Daily Operations Support",
		description: "Help maintain the daily operations of the temple including electricity, water, and maintenance of the premises.",
		temple:      0,
		category:    domain.CategoryDailyOperation,
		goal:        100000,
		raised:      75000,
		donors:      32,
		image:       "https://images.pexels.com/photos/460680/pexels-photo-460680.jpeg",
		createdAgo:  20,
	},
	{
		title:       "New Temple Construction",
		description: "Help build a new temple in a rural area where devotees have to travel long distances for worship. This temple will serve as a spiritual center for the local community.",
		temple:      2,
		category:    domain.CategoryConstruction,
		goal:        1000000,
		raised:      300000,
		donors:      67,
		featured:    true,
		image:       "https://upload.wikimedia.org/wikipedia/commons/4/49/Meenakshi_Amman_Temple.jpg",
		deadlineIn:  60,
		createdAgo:  15,
		updates: []seedUpdate{
			{title: "Land Acquisition Complete", description: "The land for the new temple has been successfully acquired. Construction will begin soon.", ago: 8},
		},
	},
	{
		title:       "Temple Equipment Fund",
		description: "Support the purchase of essential equipment for the temple including sound systems, lighting, and ceremonial items.",
		temple:      1,
		category:    domain.CategoryEquipment,
		goal:        150000,
		raised:      90000,
		donors:      23,
		image:       "https://upload.wikimedia.org/wikipedia/commons/1/14/Kedarnath_Temple.jpg",
		deadlineIn:  45,
		createdAgo:  12,
	},
}

// Donations of the demo donor; the rest of each campaign's total is
// backfilled with anonymous offline donations.
var seedDonorDonations = []seedDonation{
	{campaign: 0, amount: 1000, message: "May Lord Shiva bless everyone", ago: 5},
	{campaign: 1, amount: 2000, message: "Happy to support the festival", ago: 3},
	{campaign: 2, amount: 500, message: "Supporting daily operations", ago: 1},
	{campaign: 3, amount: 1500, message: "Blessings for the new temple", ago: 2},
}

// NewSeeded returns a store holding the demo records.
func NewSeeded() (*Store, error) {
	s := New()
	if err := Seed(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Seed loads the demo users, temples, campaigns and donations into s. The
// campaign and user aggregates equal the sums of the seeded completed
// donations.
func Seed(s *Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	day := 24 * time.Hour

	users := []domain.User{
		{Name: "John Doe", Email: DemoDonorEmail, Role: domain.UserRoleDonor},
		{Name: "Jane Smith", Email: DemoCreatorEmail, Role: domain.UserRoleTempleAdmin},
		{Name: "Temple Admin", Email: DemoAdminEmail, Role: domain.UserRoleSuperAdmin},
		{Name: "Demo User", Email: DemoUserEmail, Role: domain.UserRoleDonor},
	}
	for i := range users {
		u := users[i]
		u.ID = SeedID("user", i+1)
		u.PasswordHash = string(hash)
		u.Verified = true
		u.TotalDonated = decimal.Zero
		u.CreatedAt = now.Add(-30 * day)
		u.UpdatedAt = u.CreatedAt
		s.users[u.ID] = &u
		s.emails[u.Email] = u.ID
	}
	creatorID := SeedID("user", 2)
	donorID := SeedID("user", 1)

	for i := range seedTemples {
		t := cloneTemple(&seedTemples[i])
		t.ID = SeedID("temple", i+1)
		t.AdminID = creatorID
		t.CreatedAt = now.Add(-60 * day)
		t.UpdatedAt = t.CreatedAt
		s.temples[t.ID] = t
	}

	updateN, milestoneN, donationN := 0, 0, 0
	for i, sc := range seedCampaigns {
		c := &domain.Campaign{
			ID:           SeedID("campaign", i+1),
			Title:        sc.title,
			Description:  sc.description,
			TempleID:     SeedID("temple", sc.temple+1),
			CreatorID:    creatorID,
			Category:     sc.category,
			GoalAmount:   decimal.NewFromInt(sc.goal),
			RaisedAmount: decimal.Zero,
			Currency:     domain.DefaultCurrency,
			Status:       domain.CampaignStatusActive,
			Featured:     sc.featured,
			Images:       []string{sc.image},
			CreatedAt:    now.Add(-time.Duration(sc.createdAgo) * day),
		}
		c.UpdatedAt = c.CreatedAt
		if sc.deadlineIn > 0 {
			deadline := now.Add(time.Duration(sc.deadlineIn) * day)
			c.Deadline = &deadline
		}
		for _, su := range sc.updates {
			updateN++
			c.Updates = append(c.Updates, domain.CampaignUpdate{
				ID:          SeedID("update", updateN),
				Title:       su.title,
				Description: su.description,
				Images:      []string{},
				CreatedAt:   now.Add(-time.Duration(su.ago) * day),
			})
		}
		for _, sm := range sc.milestones {
			milestoneN++
			c.Milestones = append(c.Milestones, domain.Milestone{
				ID:          SeedID("milestone", milestoneN),
				Amount:      decimal.NewFromInt(sm.amount),
				Description: sm.description,
			})
		}
		s.campaigns[c.ID] = c
	}

	record := func(d *domain.Donation) {
		donationN++
		d.ID = SeedID("donation", donationN)
		d.Currency = domain.DefaultCurrency
		d.Status = domain.DonationStatusCompleted
		d.ReceiptGenerated = true
		d.TaxDeductible = true
		d.UpdatedAt = d.CreatedAt
		s.insertDonation(d)

		c := s.campaigns[d.CampaignID]
		c.RaisedAmount = c.RaisedAmount.Add(d.Amount)
		c.DonorCount++
		markMilestones(c, d.CreatedAt)
		if u, ok := s.users[d.DonorID]; ok {
			u.TotalDonated = u.TotalDonated.Add(d.Amount)
			u.DonationCount++
		}
	}

	donorShare := make([]seedDonation, len(seedCampaigns))
	for _, sd := range seedDonorDonations {
		donorShare[sd.campaign] = sd
	}
	for i, sc := range seedCampaigns {
		c := s.campaigns[SeedID("campaign", i+1)]
		remaining := decimal.NewFromInt(sc.raised)
		count := sc.donors
		if own := donorShare[i]; own.amount > 0 {
			remaining = remaining.Sub(decimal.NewFromInt(own.amount))
			count--
		}
		// Offline donations split the remainder evenly; the last one takes
		// the rounding difference.
		each := remaining.Div(decimal.NewFromInt(count)).Floor()
		for k := int64(0); k < count; k++ {
			amount := each
			if k == count-1 {
				amount = remaining.Sub(each.Mul(decimal.NewFromInt(count - 1)))
			}
			record(&domain.Donation{
				CampaignID:    c.ID,
				Amount:        amount,
				PaymentMethod: domain.PaymentMethodCash,
				Anonymous:     true,
				CreatedAt:     c.CreatedAt.Add(time.Duration(k+1) * time.Hour),
			})
		}
	}
	for _, sd := range seedDonorDonations {
		record(&domain.Donation{
			DonorID:       donorID,
			CampaignID:    SeedID("campaign", sd.campaign+1),
			Amount:        decimal.NewFromInt(sd.amount),
			PaymentMethod: domain.PaymentMethodRazorpay,
			Message:       sd.message,
			OrderID:       fmt.Sprintf("order_seed_%06d", sd.campaign+1),
			PaymentID:     fmt.Sprintf("pay_seed_%06d", sd.campaign+1),
			CreatedAt:     now.Add(-time.Duration(sd.ago) * day),
		})
	}
	return nil
}
