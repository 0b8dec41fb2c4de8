package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
)

// EmailHandler relays messages composed by the front end.
type EmailHandler struct {
	accounts core.AccountService
	logger   *zap.Logger
}

// NewEmailHandler creates an EmailHandler.
func NewEmailHandler(accounts core.AccountService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{accounts: accounts, logger: logger}
}

// Send handles POST /email.
func (h *EmailHandler) Send(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id, err := h.accounts.SendEmail(c.Request.Context(), core.OutgoingEmail{
		To:       req.recipients(),
		Subject:  req.Subject,
		HTML:     req.HTML,
		Text:     req.Text,
		ReplyTo:  req.ReplyTo,
		FromName: req.FromName,
	})
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
