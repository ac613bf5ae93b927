package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

const defaultTimeout = 5 * time.Second

// Store implements domain.Store on PostgreSQL through an infra.TxExecutor.
type Store struct {
	base
	campaigns *CampaignRepositoryPG
	temples   *TempleRepositoryPG
	users     *UserRepositoryPG
	donations *DonationRepositoryPG
	ledger    *LedgerRepositoryPG
}

// NewStore wires every repository to db. Each call is bounded by timeout.
func NewStore(db infra.TxExecutor, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	b := base{db: db, timeout: timeout}
	return &Store{
		base:      b,
		campaigns: &CampaignRepositoryPG{base: b},
		temples:   &TempleRepositoryPG{base: b},
		users:     &UserRepositoryPG{base: b},
		donations: &DonationRepositoryPG{base: b},
		ledger:    &LedgerRepositoryPG{base: b},
	}
}

func (s *Store) Campaigns() domain.CampaignRepository { return s.campaigns }
func (s *Store) Temples() domain.TempleRepository     { return s.temples }
func (s *Store) Users() domain.UserRepository         { return s.users }
func (s *Store) Donations() domain.DonationRepository { return s.donations }
func (s *Store) Ledger() domain.LedgerRepository      { return s.ledger }

// Ping checks that the database answers within the store timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	var one int
	if err := s.db.QueryRow(ctx, sqlinline.QPing).Scan(&one); err != nil {
		return domain.Persistence("ping", err)
	}
	return nil
}

type base struct {
	db      infra.TxExecutor
	timeout time.Duration
}

func (b base) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

type scanner interface {
	Scan(dest ...any) error
}

// storeErr maps driver errors onto the domain taxonomy. Domain errors raised
// inside a transaction pass through unchanged.
func storeErr(op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainErr(err):
		return err
	case infra.IsNoRows(err):
		return domain.NotFound(entity)
	case infra.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, entity)
	case infra.IsForeignKeyViolation(err):
		return domain.NotFound("referenced record")
	default:
		return domain.Persistence(op, err)
	}
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict,
		domain.ErrForbidden, domain.ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func optionalDecimal(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// searchPattern builds an ILIKE pattern matching term anywhere, with the
// pattern metacharacters escaped.
func searchPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
