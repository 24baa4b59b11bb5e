package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkpol/nkpolbackend/auth"
)

// AuthMiddleware guards the admin routes. It only knows pass/fail; routes
// that need the fine-grained failure kind call the Authenticator directly.
func AuthMiddleware(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c.Request)
		claims, err := a.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token", token)
		c.Next()
	}
}
