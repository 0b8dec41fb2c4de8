package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/identity"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userDisplayName"
)

// ErrorResponse mirrors api.ErrorResponse; it is redeclared here to keep the
// packages free of an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware verifies ID tokens and gates admin routes.
type AuthMiddleware struct {
	provider identity.Provider
	admins   *core.AdminList
	logger   *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(provider identity.Provider, admins *core.AdminList, logger *zap.Logger) *AuthMiddleware {
	if provider == nil {
		panic("AuthMiddleware requires an identity provider")
	}
	return &AuthMiddleware{provider: provider, admins: admins, logger: logger}
}

// VerifyToken checks the "Authorization: Bearer <token>" header and stores the
// caller's UID, email and display name in the gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.provider.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("Rejected ID token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserID, token.UID)
		c.Set(ContextUserEmail, token.Email)
		c.Set(ContextUserName, token.Name)
		c.Next()
	}
}

// RequireAdmin lets through callers whose email is on the admin allow-list.
// It must run after VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.admins.IsAdmin(c.GetString(ContextUserEmail)) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's UID.
func UserID(c *gin.Context) string { return c.GetString(ContextUserID) }

// UserEmail returns the authenticated caller's email, if the token had one.
func UserEmail(c *gin.Context) string { return c.GetString(ContextUserEmail) }

// UserName returns the authenticated caller's display name, if any.
func UserName(c *gin.Context) string { return c.GetString(ContextUserName) }
