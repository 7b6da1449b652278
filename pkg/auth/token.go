package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// InspectAccessToken decodes the claims of a backend access token without verifying its signature.
// The backend owns the signing key and rejects forged tokens itself; locally the claims only seed
// the restored session (expiry, user id, email).
func InspectAccessToken(tokenString string) (*BackendClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, fmt.Errorf("access token is required")
	}
	claims := &BackendClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}
	return claims, nil
}

// ParseAccessToken verifies the token signature with the project's JWT secret. Expiry is not
// enforced so a stale stored session can still be refreshed.
func ParseAccessToken(secret, tokenString string) (*BackendClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &BackendClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SignClaims issues an HS256 token. Used by local fakes of the backend.
func SignClaims(secret string, claims BackendClaims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}
