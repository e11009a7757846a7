package token

import (
	"strings"
	"testing"
	"time"

	"github.com/go-taskgate/taskgate/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-key-for-jwt-signing",
		JWTAlgorithm:  "HS256",
		JWTExpiration: 1 * time.Hour,
	}
}

func TestProvider_IssueAndValidate(t *testing.T) {
	provider := NewProvider(testConfig())

	tokenString, err := provider.Issue("alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := provider.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.UserEmail())
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestProvider_Validate_Expired(t *testing.T) {
	provider := NewProvider(testConfig())

	tokenString, err := provider.Issue("alice@example.com", "user")
	require.NoError(t, err)

	// Simulate time passing beyond the token TTL
	provider.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = provider.Validate(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestProvider_Validate_TamperedSignature(t *testing.T) {
	provider := NewProvider(testConfig())

	tokenString, err := provider.Issue("alice@example.com", "user")
	require.NoError(t, err)

	// Flip one byte of the signature segment
	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = provider.Validate(tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestProvider_Validate_WrongSecret(t *testing.T) {
	provider := NewProvider(testConfig())
	tokenString, err := provider.Issue("alice@example.com", "user")
	require.NoError(t, err)

	other := NewProvider(&config.Config{
		JWTSecret:     "a-different-secret",
		JWTAlgorithm:  "HS256",
		JWTExpiration: 1 * time.Hour,
	})

	_, err = other.Validate(tokenString)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestProvider_Validate_Malformed(t *testing.T) {
	provider := NewProvider(testConfig())

	_, err := provider.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = provider.Validate("")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestProvider_Validate_MissingSubject(t *testing.T) {
	cfg := testConfig()
	provider := NewProvider(cfg)

	// Sign a structurally valid token that carries no subject
	claims := jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = provider.Validate(tokenString)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestProvider_Validate_RejectsNonHMACAlgorithm(t *testing.T) {
	provider := NewProvider(testConfig())

	claims := jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = provider.Validate(unsigned)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestProvider_IssuedTokensDiffer(t *testing.T) {
	provider := NewProvider(testConfig())

	t1, err := provider.Issue("alice@example.com", "user")
	require.NoError(t, err)
	t2, err := provider.Issue("bob@example.com", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	c2, err := provider.Validate(t2)
	require.NoError(t, err)
	assert.Equal(t, "admin", c2.Role)
}
