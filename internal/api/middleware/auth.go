// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/oscesim/consult-service/internal/services/entitlements"
)

// AuthMiddleware authenticates requests by resolving the Bearer token through
// the entitlements service.
type AuthMiddleware struct {
	entitlements entitlements.Client
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(client entitlements.Client) *AuthMiddleware {
	return &AuthMiddleware{
		entitlements: client,
	}
}

// Authenticate returns a gin middleware that validates the Bearer token and
// stores the resolved user ID in the context. Unsubscribed users are rejected
// with 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid authorization header format",
			})
			return
		}

		token := parts[1]
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "empty token",
			})
			return
		}

		identity, err := m.entitlements.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, entitlements.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "UNAUTHORIZED",
					"message": "invalid or expired token",
				})
				return
			}
			log.Error().Err(err).Msg("entitlements verification failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "authentication temporarily unavailable",
			})
			return
		}

		if !identity.Subscribed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "FORBIDDEN",
				"message": "an active subscription is required",
			})
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("plan", identity.Plan)

		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the gin context.
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(string)
	}
	return ""
}
