package middleware

import (
	"net/http"
	"strings"

	"adchain/config"
	"adchain/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the JWT and sets AdvertiserID and Email in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("advertiser_id", claims.AdvertiserID)
		c.Set("email", claims.Email)
		c.Set("claims", claims)
		c.Next()
	}
}

// GetAdvertiserID returns the authenticated advertiser ID from context (must be
// used after AuthRequired).
func GetAdvertiserID(c *gin.Context) uint {
	v, _ := c.Get("advertiser_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
