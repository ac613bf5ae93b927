package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/adapter/memory"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/middleware"
)

const testSecret = "accounts-test-secret"

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := memory.NewSeeded()
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	svc := NewService(store, func(u domain.User, now time.Time) (string, time.Time, error) {
		return middleware.SignJWT(testSecret, u, now)
	}, zerolog.Nop())
	svc.cost = bcrypt.MinCost
	return svc
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	user, err := svc.SignUp(ctx, "Asha Rao", " Asha@Example.com ", "secret99")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if user.Email != "asha@example.com" || user.Role != domain.UserRoleDonor {
		t.Fatalf("SignUp() user = %+v", user)
	}
	if user.PasswordHash == "secret99" {
		t.Fatalf("password stored in clear text")
	}

	session, err := svc.SignIn(ctx, "asha@example.com", "secret99")
	if err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	claims, err := middleware.VerifyJWT(testSecret, session.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != string(domain.UserRoleDonor) || claims.Email != user.Email {
		t.Fatalf("claims = %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != middleware.TokenTTL {
		t.Fatalf("token ttl = %v, want %v", ttl, middleware.TokenTTL)
	}
}

func TestSignUpRejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	tests := []struct {
		name                  string
		userName, email, pass string
		want                  error
	}{
		{"missing name", "", "a@example.com", "secret99", domain.ErrValidation},
		{"bad email", "A", "not-an-email", "secret99", domain.ErrValidation},
		{"short password", "A", "a@example.com", "123", domain.ErrValidation},
		{"duplicate email", "John", memory.DemoDonorEmail, "secret99", domain.ErrConflict},
		{"duplicate email other case", "John", "JOHN@example.com", "secret99", domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.userName, tt.email, tt.pass)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SignUp() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	if _, err := svc.SignIn(ctx, memory.DemoDonorEmail, "wrong-password"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password error = %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", memory.DemoPassword); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown email error = %v", err)
	}
	if _, err := svc.SignIn(ctx, "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty credentials error = %v", err)
	}
	if _, err := svc.SignIn(ctx, memory.DemoDonorEmail, memory.DemoPassword); err != nil {
		t.Fatalf("demo sign in error = %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	donor, err := svc.Stats(ctx, domain.Actor{UserID: memory.SeedID("user", 1)})
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if donor.TotalDonated.String() != "5000" || donor.DonationCount != 4 || donor.CampaignsCreated != 0 {
		t.Fatalf("donor stats = %+v", donor)
	}

	creator, err := svc.Stats(ctx, domain.Actor{UserID: memory.SeedID("user", 2)})
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if creator.CampaignsCreated != 5 || !creator.TotalDonated.IsZero() {
		t.Fatalf("creator stats = %+v", creator)
	}

	if _, err := svc.Stats(ctx, domain.Actor{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous stats error = %v", err)
	}
}

func TestDonationsPagination(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	actor := domain.Actor{UserID: memory.SeedID("user", 1)}

	first, err := svc.Donations(ctx, actor, 1, 3)
	if err != nil {
		t.Fatalf("Donations() error: %v", err)
	}
	if len(first.Donations) != 3 {
		t.Fatalf("page 1 size = %d, want 3", len(first.Donations))
	}
	want := Pagination{Page: 1, Limit: 3, Total: 4, Pages: 2}
	if first.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", first.Pagination, want)
	}
	if first.Donations[0].CampaignTitle != "Daily Operations Support" {
		t.Fatalf("newest donation campaign = %q", first.Donations[0].CampaignTitle)
	}

	second, err := svc.Donations(ctx, actor, 2, 3)
	if err != nil {
		t.Fatalf("Donations() error: %v", err)
	}
	if len(second.Donations) != 1 || second.Donations[0].CampaignTitle != "Renovate Ancient Shiva Temple" {
		t.Fatalf("page 2 = %+v", second.Donations)
	}

	empty, err := svc.Donations(ctx, domain.Actor{UserID: memory.SeedID("user", 4)}, 0, 0)
	if err != nil {
		t.Fatalf("Donations() error: %v", err)
	}
	if empty.Donations == nil || len(empty.Donations) != 0 || empty.Pagination.Limit != DefaultPageSize || empty.Pagination.Page != 1 {
		t.Fatalf("empty page = %+v", empty)
	}
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	user, err := svc.Promote(ctx, memory.DemoUserEmail, domain.UserRoleSuperAdmin)
	if err != nil {
		t.Fatalf("Promote() error: %v", err)
	}
	if user.Role != domain.UserRoleSuperAdmin {
		t.Fatalf("role = %s", user.Role)
	}
	if _, err := svc.Promote(ctx, memory.DemoUserEmail, "root"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role error = %v", err)
	}
	if _, err := svc.Promote(ctx, "ghost@example.com", domain.UserRoleSuperAdmin); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user error = %v", err)
	}
}
