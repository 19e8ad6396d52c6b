package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

const currentUserKey = "currentUser"

// Auth validates the Authorization header and attaches the requester.
type Auth struct {
	Accounts *service.AccountService
}

// RequireToken ensures the request carries a valid bearer token and
// stores the resolved user for handlers.
func (m *Auth) RequireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return
	}

	user, err := m.Accounts.AuthenticateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		if apiErr, ok := err.(*service.APIError); ok {
			c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr.Code, "error_description": apiErr.Description})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}

	c.Set(currentUserKey, user)
	c.Next()
}

// CurrentUser exposes the authenticated requester to handlers.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}
