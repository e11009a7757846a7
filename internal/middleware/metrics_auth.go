package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MetricsAuth guards the metrics endpoint with a static bearer token.
// An empty expected token leaves the endpoint open.
func MetricsAuth(expectedToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expectedToken == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(expectedToken)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid metrics token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
