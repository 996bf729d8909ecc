package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether token is a JWT whose expiry already passed.
// The signature is deliberately not verified: validation is the backend's
// job. This exists so restoration can treat a known-expired cached token as
// absent instead of spending a doomed round-trip on it. Opaque or claim-less
// tokens are never treated as expired here.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
