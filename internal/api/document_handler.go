package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
)

// DocumentHandler serves shared documents.
type DocumentHandler struct {
	documents core.DocumentService
	logger    *zap.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(documents core.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, logger: logger}
}

func (h *DocumentHandler) ListMine(c *gin.Context) {
	docs, err := h.documents.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	d, err := h.documents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	d, err := h.documents.Create(c.Request.Context(), req.toPatch())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	d, err := h.documents.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) Assign(c *gin.Context) {
	assignEntity(c, h.logger, h.documents.Assign)
}
