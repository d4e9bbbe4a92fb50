package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"cephai-backend/internal/auth"
	"cephai-backend/internal/models"
)

const userContextKey = "current_user"

// RequireAuth verifies the bearer token and resolves its subject to a
// User record. A token whose subject no longer exists is treated as
// unauthenticated, not as a server error.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing bearer token"})
			return
		}

		claims, err := h.tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			// expired and tampered tokens both get a 401, but the
			// distinction matters in the logs
			if errors.Is(err, auth.ErrTokenExpired) {
				h.log.Warn().Str("reason", "expired").Msg("token rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
			} else {
				h.log.Warn().Str("reason", "invalid").Msg("token rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authentication credentials"})
			}
			return
		}

		var user models.User
		if err := h.db.Where("username = ?", claims.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Database error", "details": err.Error()})
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// currentUser returns the authenticated user stored by RequireAuth.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequestLogger logs one line per handled request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
