package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the claim set carried by an access token.
// Only the registered claims are used: sub (username), iat and exp.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenExpiry returns the expiry a token issued at now with ttl carries.
// Token timestamps have whole-second resolution, so now+ttl is rounded up:
// a token is never rejected before ttl has elapsed.
func TokenExpiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); !whole.Equal(exp) {
		return whole.Add(time.Second)
	}

	return exp.Round(0)
}

// TokenService defines the interface for issuing and validating signed bearer tokens.
// Implementations hold no mutable state; the signing secret is fixed at construction.
type TokenService interface {
	// Issue signs a token for subject that expires at TokenExpiry(now, ttl).
	Issue(subject string, ttl time.Duration, now time.Time) (string, error)

	// Validate verifies the signature and expiry of tokenString at now and returns its subject.
	// Failures are ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
	Validate(tokenString string, now time.Time) (string, error)
}
