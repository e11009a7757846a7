package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-taskgate/taskgate/internal/metrics"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/services"
	"github.com/go-taskgate/taskgate/internal/token"

	"github.com/gin-gonic/gin"
)

// userContextKey is where RequireAuth stores the authenticated user.
const userContextKey = "user"

// RequireAuth validates the bearer token and loads the authenticated user
// into the request context. Every failure mode (missing header, bad token,
// expired token, unknown subject) produces the same 401 response, so the
// endpoint never reveals which check failed.
func RequireAuth(
	users *services.UserService,
	tokens *token.Provider,
	m metrics.Recorder,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			m.RecordTokenValidation("missing")
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpiredToken):
				m.RecordTokenValidation("expired")
			default:
				m.RecordTokenValidation("invalid")
			}
			abortUnauthorized(c)
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), claims.UserEmail())
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				m.RecordTokenValidation("unknown_subject")
				abortUnauthorized(c)
				return
			}
			// Storage failures are server faults, not credential faults
			m.RecordTokenValidation("error")
			log.Printf("[Auth] User lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		// The role in the token governs authorization until the token
		// expires, even if the stored role changed in the meantime.
		user.Role = claims.Role

		m.RecordTokenValidation("success")
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin allows the request through only when the authenticated user
// carries the admin role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": "could not validate credentials",
	})
	c.Abort()
}
