package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

// AuthMiddleware returns a Gin middleware that requires a valid access token and injects the user into the context.
func AuthMiddleware(tokenManager jwt.TokenManager) gin.HandlerFunc {
	return authenticate(tokenManager, false)
}

// IdentityMiddleware is the optional variant: requests without an Authorization header
// continue anonymously, while a bad token is still rejected.
func IdentityMiddleware(tokenManager jwt.TokenManager) gin.HandlerFunc {
	return authenticate(tokenManager, true)
}

func authenticate(tokenManager jwt.TokenManager, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && optional {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokenManager.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token expired"})
			case errors.Is(err, jwt.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token revoked"})
			case errors.Is(err, jwt.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			return
		}
		util.SetUser(c, claims.UserID, claims.Username, tokenString)
		c.Next()
	}
}
