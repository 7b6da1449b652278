package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BackendClaims is the subset of the backend-issued access token we read locally.
type BackendClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Expiry returns the token expiry, or the zero time when the claim is absent.
func (c *BackendClaims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time.UTC()
}

// Expired reports whether the token is past its expiry at now. Tokens without exp never expire.
func (c *BackendClaims) Expired(now time.Time) bool {
	exp := c.Expiry()
	if exp.IsZero() {
		return false
	}
	return !now.Before(exp)
}
