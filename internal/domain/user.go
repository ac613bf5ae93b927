package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleDonor       UserRole = "donor"
	UserRoleTempleAdmin UserRole = "temple_admin"
	UserRoleSuperAdmin  UserRole = "super_admin"
)

// User represents an account that donates to or creates campaigns.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          UserRole
	Verified      bool
	TotalDonated  decimal.Decimal
	DonationCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether the user may perform administrative lifecycle actions.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleSuperAdmin
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   UserRole
}

// IsAdmin reports whether the actor carries the super admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleSuperAdmin
}

// UserStats summarises a user's activity.
type UserStats struct {
	TotalDonated     decimal.Decimal
	DonationCount    int64
	CampaignsCreated int64
}
