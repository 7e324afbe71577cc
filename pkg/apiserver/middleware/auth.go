package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/costline/costline/pkg/auth"
	"github.com/costline/costline/pkg/config"
)

// Auth validates bearer tokens when a signing secret is configured. With no
// secret the API stays open, matching deployments that front the service
// with their own gateway.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	if cfg.JWTSecret == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	manager := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)

	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization"})
			return
		}
		claims, err := manager.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user", claims.Subject)
		c.Next()
	}
}
