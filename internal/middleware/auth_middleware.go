package middleware

import (
	"net/http"
	"strings"

	"tasker/internal/auth"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key carrying the authenticated caller's
// opaque user id as a uuid.UUID.
const UserIDKey = "userID"

// JWTAuthMiddleware resolves the caller identity from a bearer token issued
// by the external User Service and stores it in the request context. It
// performs no authorization; board-level access checks live in handlers.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, err := auth.ParseUserID(parts[1], jwtSecret)
		if err != nil {
			if err == auth.ErrInvalidClaims {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
