// Package accounts implements credential sign-up and sign-in and the
// per-user donation views.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

const (
	minPasswordLength = 6
	DefaultPageSize   = 10
	MaxPageSize       = 50
)

// TokenSigner issues a session token for an authenticated user.
type TokenSigner func(user domain.User, now time.Time) (token string, expires time.Time, err error)

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// DonationPage is a page of a donor's history.
type DonationPage struct {
	Donations  []domain.DonationView
	Pagination Pagination
}

type Service struct {
	store  domain.Store
	sign   TokenSigner
	logger zerolog.Logger
	now    func() time.Time
	cost   int
}

func NewService(store domain.Store, sign TokenSigner, logger zerolog.Logger) *Service {
	return &Service{store: store, sign: sign, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

// SignUp creates a donor account with a bcrypt password hash.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.Invalid("name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, domain.Invalid("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, domain.Invalid("password cannot be hashed")
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.UserRoleDonor,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

// SignIn checks the credentials and issues a session token. Unknown emails
// and wrong passwords fail the same way.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Invalid("email and password are required")
	}
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	token, expires, err := s.sign(*user, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: *user}, nil
}

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

// Profile returns the user record of the actor.
func (s *Service) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.store.Users().Get(ctx, actor.UserID)
}

// Stats summarises the actor's donations and created campaigns.
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (*domain.UserStats, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Campaigns().CountByCreator(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.UserStats{
		TotalDonated:     user.TotalDonated,
		DonationCount:    user.DonationCount,
		CampaignsCreated: created,
	}, nil
}

// Donations returns the actor's completed donations, newest first. Page is
// one-based.
func (s *Service) Donations(ctx context.Context, actor domain.Actor, page, limit int) (*DonationPage, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	items, total, err := s.store.Donations().ListByDonor(ctx, actor.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.DonationView{}
	}
	return &DonationPage{
		Donations: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

// Promote grants a role to the account registered under email.
func (s *Service) Promote(ctx context.Context, email string, role domain.UserRole) (*domain.User, error) {
	switch role {
	case domain.UserRoleDonor, domain.UserRoleTempleAdmin, domain.UserRoleSuperAdmin:
	default:
		return nil, domain.Invalid("unknown role %q", role)
	}
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().SetRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role
	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user role changed")
	return user, nil
}
