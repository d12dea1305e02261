package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/auth"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
)

// ContextKeyEmail holds the key for the authenticated user's email in Gin context.
const ContextKeyEmail = "userEmail"

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]
		claims, err := auth.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			errMsg := fmt.Sprintf("Invalid or expired token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

// AdminVerifier resolves the caller's stored admin flag.
type AdminVerifier interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// AdminMiddleware creates a Gin middleware to check for admin privileges.
// Assumes AuthMiddleware runs first. The token carries an isAdmin claim for
// display purposes only; the user document is the source of truth, so
// revoking the flag locks out even an unexpired token.
func AdminMiddleware(users AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextKeyEmail)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator privileges required"})
			return
		}
		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator privileges required"})
			return
		}
		c.Next()
	}
}
