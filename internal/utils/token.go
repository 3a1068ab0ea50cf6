package utils // package utils provides helpers for access-token inspection

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library used to decode token claims
)

// The access token is issued and signed by the upstream auth service; this
// client never holds the signing secret.  Validity here means only that the
// token parses and its embedded exp claim has not passed.  The server remains
// the authority and will answer 401 for anything it no longer accepts.

// TokenExpiry decodes the token payload without verifying the signature and
// returns the exp claim.  An error means the token is structurally unusable
// and should be dropped.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return exp.Time, nil
}

// IsTokenValid reports whether the token is present, parseable and not yet
// expired at the given instant.
func IsTokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return now.Before(exp)
}
