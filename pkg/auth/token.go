package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when a stored token is past its exp claim.
var ErrTokenExpired = errors.New("access token expired")

// InspectAccessToken decodes the API-issued JWT without verifying its
// signature. The web tier does not hold the signing secret; the API verifies
// every bearer call and this is only used to drop sessions that are known to
// be stale.
func InspectAccessToken(tokenString string) (*AccessTokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, fmt.Errorf("access token is required")
	}
	claims := &AccessTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}
	return claims, nil
}

// CheckAccessToken inspects the token and fails when it has expired at now.
// Tokens without an exp claim are accepted.
func CheckAccessToken(tokenString string, now time.Time) (*AccessTokenClaims, error) {
	claims, err := InspectAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
