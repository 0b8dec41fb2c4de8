package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
)

// InvoiceHandler serves invoices.
type InvoiceHandler struct {
	invoices core.InvoiceService
	logger   *zap.Logger
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(invoices core.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, logger: logger}
}

// ListMine handles GET /me/invoices.
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	invoices, err := h.invoices.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// List handles GET /admin/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// Get handles GET /admin/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.invoices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Create handles POST /admin/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	inv, err := h.invoices.Create(c.Request.Context(), patch)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Update handles PUT /admin/invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	inv, err := h.invoices.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Delete handles DELETE /admin/invoices/:id. The attached file is removed
// best-effort.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign handles POST /admin/invoices/:id/assign.
func (h *InvoiceHandler) Assign(c *gin.Context) {
	assignEntity(c, h.logger, h.invoices.Assign)
}
