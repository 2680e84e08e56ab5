package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessClaims is the claim set of an access token. Roles are derived facts
// (profile rows exist), not stored state; the optional expertId/recruiterId
// claims are present only when the matching profile exists.
type AccessClaims struct {
	Email          string   `json:"email"`
	Username       string   `json:"username"`
	Roles          []string `json:"roles"`
	ExpertID       string   `json:"expertId,omitempty"`
	RecruiterID    string   `json:"recruiterId,omitempty"`
	FullName       string   `json:"fullName,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	TokenType      string   `json:"type"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only identity plus the entity discriminator that
// selects the re-mint path (User vs Administrator).
type RefreshClaims struct {
	Entity    string `json:"entity"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SignClaims signs any claim set with HS256.
func SignClaims(secret string, claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and lifetime and rejects tokens whose
// type claim is not "access".
func ParseAccessToken(secret, tokenStr string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// ParseRefreshToken verifies the signature but skips automatic claim
// validation; the caller checks issuer, audience and expiry explicitly.
func ParseRefreshToken(secret, tokenStr string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected refresh claims")
	}
	return claims, nil
}
