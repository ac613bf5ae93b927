package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// TokenTTL is the lifetime of a session token.
const TokenTTL = 24 * time.Hour

const tokenIssuer = "temple-crowdfunding"

// TokenClaims are the session claims carried by a bearer token.
type TokenClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type actorKey struct{}

// SignJWT issues an HS256 token for user valid for TokenTTL from now.
func SignJWT(secret string, user domain.User, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("session secret is not configured")
	}
	expires := now.Add(TokenTTL)
	claims := TokenClaims{
		Role:  string(user.Role),
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// VerifyJWT parses token and checks its signature, algorithm, issuer and expiry.
func VerifyJWT(secret, token string) (*TokenClaims, error) {
	if secret == "" {
		return nil, errors.New("session secret is not configured")
	}
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthJWT rejects requests without a valid bearer token.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromRequest(r, secret)
			if err != nil {
				writeAuthError(w, err.Error())
				return
			}
			if actor == nil {
				writeAuthError(w, "missing authorization")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), *actor)))
		})
	}
}

// OptionalAuth attaches the actor when a valid token is present. A missing
// token passes through anonymously; an invalid one is rejected.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromRequest(r, secret)
			if err != nil {
				writeAuthError(w, err.Error())
				return
			}
			if actor != nil {
				r = r.WithContext(ContextWithActor(r.Context(), *actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFromRequest(r *http.Request, secret string) (*domain.Actor, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization")
	}
	claims, err := VerifyJWT(secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return &domain.Actor{UserID: claims.Subject, Role: domain.UserRole(claims.Role)}, nil
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"` + msg + `"}}`))
}

// ActorFromContext returns the authenticated caller, if any.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok && actor.UserID != ""
}

// UserIDFromContext returns the authenticated user id or "".
func UserIDFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.UserID
}

// ContextWithActor stores actor in ctx.
func ContextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	if strings.TrimSpace(actor.UserID) == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}
