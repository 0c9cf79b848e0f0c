package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/joramcars/dealership-web/pkg/enums"
)

// AccessTokenClaims is the subset of the API's access token the web tier reads.
type AccessTokenClaims struct {
	Role enums.UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}
