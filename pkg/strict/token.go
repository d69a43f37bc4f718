package strict

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer credential issued by the service's /token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ExpiresAt reads the expiry claim from the access token. The signature is
// not verified; the client holds no signing key and only needs the claim to
// decide when to re-authenticate.
func (t Token) ExpiresAt() (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.AccessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("access token carries no expiry claim")
	}
	return exp.Time, nil
}

// Expired reports whether the token's expiry claim is at or before now.
// A token whose expiry cannot be read is treated as expired.
func (t Token) Expired(now time.Time) bool {
	exp, err := t.ExpiresAt()
	if err != nil {
		return true
	}
	return !exp.After(now)
}
