// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"credgate/config"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/service"
	"credgate/internal/errors"
)

// DefaultAlgorithm is used when token.algorithm is not configured.
const DefaultAlgorithm = "HS256"

var supportedAlgorithms = []string{"HS256", "HS384", "HS512"}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte                 // Secret key for signing access tokens.
	method *jwt.SigningMethodHMAC // Signing algorithm agreed at start-up.
	parser *jwt.Parser            // Parser restricted to method.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Token.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return NewJWTServiceWithKey([]byte(cfg.Token.Secret), cfg.Token.Algorithm)
}

// NewJWTServiceWithKey creates a token service for an explicit secret and HMAC algorithm name.
// An empty algorithm selects DefaultAlgorithm.
func NewJWTServiceWithKey(secret []byte, algorithm string) (service.TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must be provided")
	}

	alg := strings.ToUpper(strings.TrimSpace(algorithm))
	if alg == "" {
		alg = DefaultAlgorithm
	}
	if !slices.Contains(supportedAlgorithms, alg) {
		return nil, errors.Errorf("unsupported jwt algorithm %q", algorithm)
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("jwt algorithm %q is not an HMAC method", alg)
	}

	return &jwtService{
		secret: slices.Clone(secret),
		method: method,
		// Expiry is checked by Validate itself: the library treats now == exp as still valid.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue creates a signed token for subject that expires at service.TokenExpiry(now, ttl).
func (s *jwtService) Issue(subject string, ttl time.Duration, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}
	if ttl <= 0 {
		return "", errors.Errorf("token ttl must be positive, got %s", ttl)
	}

	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,                                           // Subject (who the token is for)
			IssuedAt:  jwt.NewNumericDate(now),                           // Issued At
			ExpiresAt: jwt.NewNumericDate(service.TokenExpiry(now, ttl)), // Expiration Time
		},
	}

	token := jwt.NewWithClaims(s.method, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate verifies tokenString at now and returns its subject.
func (s *jwtService) Validate(tokenString string, now time.Time) (string, error) {
	claims := &service.Claims{}

	if _, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFunc); err != nil {
		return "", classifyParseError(err)
	}

	if claims.Subject == "" {
		return "", domainerrors.ErrTokenMalformed.WrapMessage("token has no subject")
	}
	if claims.ExpiresAt == nil {
		return "", domainerrors.ErrTokenMalformed.WrapMessage("token has no expiry")
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return "", domainerrors.ErrTokenExpired.WrapMessage("token expired")
	}

	return claims.Subject, nil
}

func (s *jwtService) keyFunc(token *jwt.Token) (any, error) {
	// Ensure the signing method is what we expect.
	if token.Method.Alg() != s.method.Alg() {
		return nil, jwt.ErrSignatureInvalid
	}

	return s.secret, nil
}

// classifyParseError maps jwt parser failures onto the token error taxonomy.
func classifyParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrSignatureInvalid) {
		return domainerrors.ErrTokenBadSignature.WrapMessage(err.Error())
	}

	// Structural failures: segments, base64url, JSON, unknown alg header.
	return domainerrors.ErrTokenMalformed.WrapMessage(err.Error())
}
