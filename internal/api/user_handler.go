package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
	"portal-backend-go/internal/models"
)

// UserHandler serves client profiles and their payment summaries.
type UserHandler struct {
	users    core.UserService
	accounts core.AccountService
	admins   *core.AdminList
	logger   *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users core.UserService, accounts core.AccountService, admins *core.AdminList, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, accounts: accounts, admins: admins, logger: logger}
}

func (h *UserHandler) respond(user *models.User) UserResponse {
	return UserResponse{User: user, IsAdmin: h.admins.IsAdmin(user.Email)}
}

// CreateUser handles POST /admin/users: it creates the login and the profile.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	user, err := h.accounts.CreateUser(c.Request.Context(), core.NewAccount{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.respond(user))
}

// ListUsers handles GET /admin/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, h.respond(u))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /admin/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(user))
}

// UpdateUser handles PUT /admin/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), models.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(user))
}

// DeleteUser handles DELETE /admin/users/:id. The user's tickets go with the
// profile; projects, invoices and documents stay.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPaymentSummary handles GET /admin/users/:id/payment-summary.
func (h *UserHandler) GetPaymentSummary(c *gin.Context) {
	h.paymentSummary(c, c.Param("id"))
}

// GetMyPaymentSummary handles GET /me/payment-summary.
func (h *UserHandler) GetMyPaymentSummary(c *gin.Context) {
	h.paymentSummary(c, middleware.UserID(c))
}

func (h *UserHandler) paymentSummary(c *gin.Context, userID string) {
	summary, err := h.users.PaymentSummary(c.Request.Context(), userID)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
