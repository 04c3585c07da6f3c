package ais

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// staticToken wraps a fixed bearer token as an oauth2 source so refreshing
// sources can be swapped in through WithTokenSource.
func staticToken(raw string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: raw, TokenType: "Bearer"})
}

// checkToken inspects a configured token before first use. Expired JWTs are
// rejected up front instead of failing every request; tokens that do not
// parse as JWTs pass through opaque.
func checkToken(raw string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return configErrorf("auth token expired at %s", exp.Format(time.RFC3339))
	}
	return nil
}
