package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkers/internal/ports"
)

// RequireAuth resolves the access_token cookie into a user id via auth and
// stores it on the gin context as "user_id", or aborts with 401.
func RequireAuth(auth ports.AuthPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie("access_token")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		userID, err := auth.Authenticate(c.Request.Context(), cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
