package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
)

// ProjectHandler serves projects.
type ProjectHandler struct {
	projects core.ProjectService
	logger   *zap.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projects core.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// ListMine handles GET /me/projects.
func (h *ProjectHandler) ListMine(c *gin.Context) {
	projects, err := h.projects.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// List handles GET /admin/projects.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get handles GET /admin/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create handles POST /admin/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	p, err := h.projects.Create(c.Request.Context(), patch)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update handles PUT /admin/projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	p, err := h.projects.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /admin/projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign handles POST /admin/projects/:id/assign.
func (h *ProjectHandler) Assign(c *gin.Context) {
	assignEntity(c, h.logger, h.projects.Assign)
}

// assignEntity decodes an AssignRequest and runs fn for the :id entity.
func assignEntity(c *gin.Context, logger *zap.Logger, fn func(ctx context.Context, id, userID string) error) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "userId is required", err)
		return
	}
	id := c.Param("id")
	if err := fn(c.Request.Context(), id, req.UserID); err != nil {
		mapServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Assigned", Data: gin.H{"id": id, "userId": req.UserID}})
}
