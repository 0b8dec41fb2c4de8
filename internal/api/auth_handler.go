package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
)

// AuthHandler handles login bookkeeping and password resets.
type AuthHandler struct {
	users    core.UserService
	accounts core.AccountService
	admins   *core.AdminList
	logger   *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users core.UserService, accounts core.AccountService, admins *core.AdminList, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, accounts: accounts, admins: admins, logger: logger}
}

// InitializeUserProfile handles POST /users/initialize. The client calls it
// after every sign-in; the profile is created on first use and refreshed
// afterwards. isAdmin is recomputed from the allow-list each time.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	uid := middleware.UserID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}
	email := middleware.UserEmail(c)

	user, created, err := h.users.Initialize(c.Request.Context(), uid, email, middleware.UserName(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, UserResponse{User: user, IsAdmin: h.admins.IsAdmin(email)})
}

// GetCurrentUser handles GET /users/me.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user, IsAdmin: h.admins.IsAdmin(middleware.UserEmail(c))})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), req.Email); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Password reset email sent"})
}
