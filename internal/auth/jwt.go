package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleStaff    UserRole = "STAFF"
	RoleCustomer UserRole = "CUSTOMER"
)

// CanTransitionOrders reports whether an actor may drive the order
// status state machine. Customers never mutate status directly.
func (r UserRole) CanTransitionOrders() bool {
	return r == RoleAdmin || r == RoleStaff
}

type Claims struct {
	UserID   int64    `json:"userId"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	BranchID *int64   `json:"branchId,omitempty"`
	Name     *string  `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func VerifyAccessToken(tokenString string, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}

// SignAccessToken issues an HS256 token for the given claims. Production
// tokens come from the identity service; this exists for tooling and tests.
func SignAccessToken(claims *Claims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
