package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	contextUserKey = "authenticatedUser"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// extractAccessToken reads the token from the access cookie first, then the
// Authorization header; first non-empty wins.
func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// requireAuth gates a route on a valid access token resolving to a live user.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized request")
			c.Abort()
			return
		}

		userID, err := h.tokens.Verify(token, auth.PurposeAccess)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid access token")
			c.Abort()
			return
		}

		// The token may outlive the account; a deleted user is a 401, not a 500.
		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid access token")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// optionalAuth resolves the caller when a valid token is present but lets
// anonymous requests through.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractAccessToken(c); token != "" {
			if userID, err := h.tokens.Verify(token, auth.PurposeAccess); err == nil {
				if user, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
					c.Set(contextUserKey, user)
				}
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func currentUserID(c *gin.Context) int64 {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}
