package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	AuthUserIDKey = "auth_user_id"
	AuthEmailKey  = "auth_email"
)

// TokenVerifier validates a bearer token and returns the user id and email
// it asserts. The middleware stays decoupled from the credential service
// through this function type.
type TokenVerifier func(token string) (userID, email string, err error)

// RequireAuth rejects requests without a valid bearer token and attaches
// the token's identity to the gin context.
func RequireAuth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			return
		}

		userID, email, err := verify(authHeader[len(bearerPrefix):])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthUserIDKey, userID)
		c.Set(AuthEmailKey, email)
		c.Next()
	}
}
