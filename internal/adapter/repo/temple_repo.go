package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

// TempleRepositoryPG implements domain.TempleRepository backed by PostgreSQL.
type TempleRepositoryPG struct {
	base
}

// FindOrCreate returns the temple with the same name and address, inserting
// temple when none exists.
func (r *TempleRepositoryPG) FindOrCreate(ctx context.Context, temple *domain.Temple) (*domain.Temple, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	id := temple.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := r.db.QueryRow(ctx, sqlinline.QFindOrCreateTemple,
		id,
		temple.Name,
		temple.Description,
		temple.Location.Address,
		temple.Location.City,
		temple.Location.State,
		temple.Location.Pincode,
		temple.Deity,
		nonNilStrings(temple.Images),
		temple.AdminID,
	)
	stored, err := scanTemple(row)
	return stored, storeErr("find or create temple", "temple", err)
}

// Get fetches a temple by id.
func (r *TempleRepositoryPG) Get(ctx context.Context, id string) (*domain.Temple, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("temple")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()
	temple, err := scanTemple(r.db.QueryRow(ctx, sqlinline.QGetTemple, id))
	return temple, storeErr("get temple", "temple", err)
}

func scanTemple(row scanner) (*domain.Temple, error) {
	var t domain.Temple
	if err := row.Scan(templeDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func templeDest(t *domain.Temple) []any {
	return []any{
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Location.Address,
		&t.Location.City,
		&t.Location.State,
		&t.Location.Pincode,
		&t.Deity,
		&t.Images,
		&t.AdminID,
		&t.Verified,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
