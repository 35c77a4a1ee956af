package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/service/auth"
	"github.com/medassist/telemed-api/pkg/httputil"
)

const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the caller in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, httputil.Response{Status: "error", Message: "missing or malformed authorization header"})
			c.Abort()
			return
		}

		user, err := m.authService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			httputil.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// OptionalAuthenticate resolves the caller when a bearer token is present
// but lets anonymous requests through. An invalid token is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, err := m.authService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			httputil.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireAdmin gates admin routes; runs after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, httputil.Response{Status: "error", Message: "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// CurrentUserID returns the authenticated caller's id, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
