package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-taskgate/taskgate/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the validated claims set carried by an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserEmail returns the token subject, which carries the user's email.
func (c *Claims) UserEmail() string {
	return c.RegisteredClaims.Subject
}

// Provider issues and validates signed, expiring access tokens.
// Tokens are stateless; there is no server-side record and no revocation.
type Provider struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewProvider creates a token provider from configuration.
// The signing algorithm must be one of the HMAC family (enforced by
// config.Validate).
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		method: jwt.GetSigningMethod(cfg.JWTAlgorithm),
		ttl:    cfg.JWTExpiration,
		now:    time.Now,
	}
}

// Issue creates a signed token carrying {sub, role, exp}.
// Expiry is mandatory on every issued token.
func (p *Provider) Issue(subject, role string) (string, error) {
	now := p.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(p.method, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return tokenString, nil
}

// Validate verifies signature and expiry and returns the claims.
// Claims are trusted only if both checks pass; a structurally valid token
// without a subject is rejected as malformed.
func (p *Provider) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// Cryptographic validation alone is not enough: an empty subject makes
	// the token unusable for identity resolution.
	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
