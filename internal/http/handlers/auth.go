package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *signUpRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return domain.Invalid("name, email and password are required")
	}
	return nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *signInRequest) Validate() error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return domain.Invalid("email and password are required")
	}
	return nil
}

type userProfileDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

type signInResponse struct {
	Success   bool           `json:"success"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      userProfileDTO `json:"user"`
}

func profileDTO(u domain.User) userProfileDTO {
	return userProfileDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		Verified: u.Verified,
	}
}

func (a *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	user, err := a.Accounts.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"user":    profileDTO(*user),
	})
}

func (a *App) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := bind(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ctx, cancel := a.ctx(r)
	defer cancel()
	session, err := a.Accounts.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, signInResponse{
		Success:   true,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      profileDTO(session.User),
	})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	user, err := a.Accounts.Profile(ctx, a.actor(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileDTO(*user))
}
