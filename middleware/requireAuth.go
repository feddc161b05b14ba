package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/RushabhMehta2005/todo-auth/services"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// RequireAuth verifies the bearer token on the request and stores the caller's
// identity in the gin context. It does not look at resource ownership.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			log.Printf("auth: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// WithIdentity adapts a handler that takes the authenticated identity as a
// parameter. It must run behind RequireAuth.
func WithIdentity(handler func(*gin.Context, services.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(identityKey)
		identity, ok := v.(services.Identity)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		handler(c, identity)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
