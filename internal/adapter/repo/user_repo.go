package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	base
}

// Create inserts a new account. A duplicate email yields domain.ErrConflict.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleDonor
	}
	row := r.db.QueryRow(ctx, sqlinline.QInsertUser,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Verified,
	)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return storeErr("insert user", "user", err)
	}
	return nil
}

// Get fetches a user by id.
func (r *UserRepositoryPG) Get(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("user")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()
	user, err := scanUser(r.db.QueryRow(ctx, sqlinline.QGetUserByID, id))
	return user, storeErr("get user", "user", err)
}

// GetByEmail fetches a user by case-insensitive email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	user, err := scanUser(r.db.QueryRow(ctx, sqlinline.QGetUserByEmail, email))
	return user, storeErr("get user by email", "user", err)
}

// SetRole changes the role of an account.
func (r *UserRepositoryPG) SetRole(ctx context.Context, id string, role domain.UserRole) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, sqlinline.QSetUserRole, id, string(role))
	if err != nil {
		return storeErr("set user role", "user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user")
	}
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user  domain.User
		role  string
		total string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Verified,
		&total,
		&user.DonationCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.UserRole(role)
	amount, err := parseDecimal("total_donated", total)
	if err != nil {
		return nil, err
	}
	user.TotalDonated = amount
	return &user, nil
}
