package middleware

import (
	"net/http"
	"strings"

	"modstore/config"
	"modstore/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer JWT and sets UserID, Email, Role in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		setClaims(c, claims, raw)
		c.Next()
	}
}

// AuthFromHeaderOrQuery behaves like AuthRequired but also accepts the
// credential as a ?token= query parameter, for direct download links opened
// outside an API client. Requests without a valid credential are not
// aborted with JSON; the handler decides how to redirect, so this variant
// only populates context when the token checks out.
func AuthFromHeaderOrQuery(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Query("token")
		}
		if raw != "" {
			if claims, err := auth.ParseAccessToken(cfg, raw); err == nil {
				setClaims(c, claims, raw)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func setClaims(c *gin.Context, claims *auth.Claims, raw string) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
	c.Set("claims", claims)
	c.Set("access_token", raw)
}

// GetUserID returns the authenticated user ID from context, or 0 when the
// request carried no valid credential.
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetClaims returns the parsed access token claims, or nil.
func GetClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get("claims")
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
