package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rentalboard/internal/schema"
)

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

const sessionTTL = 12 * time.Hour

type SessionClaims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
	Name string `json:"name"`
}

// IssueSessionToken signs an HS256 session token for the given actor.
func IssueSessionToken(secret, role, name string, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing session secret")
	}
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Role: role,
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifySessionToken validates a session token and returns the actor it
// carries.
func VerifySessionToken(secret, tokenString string, now time.Time) (schema.Actor, error) {
	if tokenString == "" {
		return schema.Actor{}, fmt.Errorf("missing token")
	}
	if secret == "" {
		return schema.Actor{}, fmt.Errorf("missing session secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &SessionClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return schema.Actor{}, err
	}
	if !tok.Valid {
		return schema.Actor{}, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return schema.Actor{}, fmt.Errorf("token expired")
	}
	if claims.Role != RoleAdmin && claims.Role != RoleAgent {
		return schema.Actor{}, fmt.Errorf("unknown role in token: %s", claims.Role)
	}

	return schema.Actor{Role: claims.Role, Name: claims.Name}, nil
}
