package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/services"
	"github.com/go-taskgate/taskgate/internal/store"
	"github.com/go-taskgate/taskgate/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestEnv(t *testing.T) (*services.UserService, *token.Provider) {
	t.Helper()

	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)

	provider := token.NewProvider(&config.Config{
		JWTSecret:     "test-secret",
		JWTAlgorithm:  "HS256",
		JWTExpiration: time.Hour,
	})

	return services.NewUserService(s, provider, metrics.NewNoopMetrics()), provider
}

func newProtectedRouter(
	users *services.UserService,
	provider *token.Provider,
	adminOnly bool,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{RequireAuth(users, provider, metrics.NewNoopMetrics())}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "role": user.Role})
	})

	router.GET("/protected", handlers...)
	return router
}

func doProtected(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ctx := context.Background()
	users, provider := newAuthTestEnv(t)
	router := newProtectedRouter(users, provider, false)

	_, err := users.Register(ctx, "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	tokenString, err := users.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	w := doProtected(router, "Bearer "+tokenString)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireAuth_Failures(t *testing.T) {
	ctx := context.Background()
	users, provider := newAuthTestEnv(t)
	router := newProtectedRouter(users, provider, false)

	_, err := users.Register(ctx, "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	valid, err := users.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	// A token whose subject no longer resolves to a user
	orphan, err := provider.Issue("ghost@example.com", models.RoleUser)
	require.NoError(t, err)

	// A token signed with a different secret
	other := token.NewProvider(&config.Config{
		JWTSecret:     "other-secret",
		JWTAlgorithm:  "HS256",
		JWTExpiration: time.Hour,
	})
	forged, err := other.Issue("alice@example.com", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + forged},
		{"unknown subject", "Bearer " + orphan},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doProtected(router, tc.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			// Every failure mode returns the same body
			assert.Contains(t, w.Body.String(), "could not validate credentials")
		})
	}

	// Sanity check that the valid token still works after the failures
	w := doProtected(router, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_StorageFailure(t *testing.T) {
	ctx := context.Background()

	s, err := store.New(ctx, "sqlite", ":memory:")
	require.NoError(t, err)

	provider := token.NewProvider(&config.Config{
		JWTSecret:     "test-secret",
		JWTAlgorithm:  "HS256",
		JWTExpiration: time.Hour,
	})
	users := services.NewUserService(s, provider, metrics.NewNoopMetrics())
	router := newProtectedRouter(users, provider, false)

	_, err = users.Register(ctx, "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	tokenString, err := users.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	// Kill the database underneath a still-valid token. The failure is a
	// server fault and must not masquerade as a credential fault.
	sqlDB, err := s.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doProtected(router, "Bearer "+tokenString)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "could not validate credentials")
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	users, provider := newAuthTestEnv(t)
	router := newProtectedRouter(users, provider, true)

	_, err := users.Register(ctx, "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	userToken, err := users.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	// Regular users are rejected with 403
	w := doProtected(router, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	// Admin tokens pass both gates
	adminToken, err := provider.Issue("alice@example.com", models.RoleAdmin)
	require.NoError(t, err)

	w = doProtected(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.RoleAdmin)
}

func TestRequireAuth_RoleComesFromToken(t *testing.T) {
	ctx := context.Background()
	users, provider := newAuthTestEnv(t)
	router := newProtectedRouter(users, provider, true)

	// The stored role is "user", but the token says admin. The token wins
	// until it expires.
	_, err := users.Register(ctx, "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)

	adminToken, err := provider.Issue("alice@example.com", models.RoleAdmin)
	require.NoError(t, err)

	w := doProtected(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
