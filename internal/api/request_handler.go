package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/middleware"
	"portal-backend-go/internal/models"
)

// RequestHandler serves service request tickets.
type RequestHandler struct {
	requests core.RequestService
	logger   *zap.Logger
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(requests core.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

func withTransitions(reqs []*models.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequestResponse{Request: r, Transitions: core.AvailableTransitions(r.Status)})
	}
	return out
}

// ListMine handles GET /me/requests.
func (h *RequestHandler) ListMine(c *gin.Context) {
	reqs, err := h.requests.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// CreateMine handles POST /me/requests. The ticket owner, email and name come
// from the verified token, never from the payload, and the service forces the
// initial status to todo.
func (h *RequestHandler) CreateMine(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	owner := core.Requester{
		UserID: middleware.UserID(c),
		Email:  middleware.UserEmail(c),
		Name:   middleware.UserName(c),
	}
	created, err := h.requests.Create(c.Request.Context(), owner, req.toPatch())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// StreamMine handles GET /me/requests/stream.
func (h *RequestHandler) StreamMine(c *gin.Context) {
	uid := middleware.UserID(c)
	streamRequests(c, h.logger, func(ctx context.Context, fn func([]*models.Request)) *core.Subscription {
		return h.requests.SubscribeForUser(ctx, uid, fn)
	})
}

// List handles GET /admin/requests. Optional query parameters: status, q
// (free-text search) and group=status to return one column per status.
func (h *RequestHandler) List(c *gin.Context) {
	reqs, err := h.requests.List(c.Request.Context(), core.RequestFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	})
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	// The board view wants one column per status, including empty ones.
	if c.Query("group") == "status" {
		groups := core.GroupByStatus(reqs)
		out := make(map[string][]RequestResponse, len(groups))
		for status, list := range groups {
			out[status] = withTransitions(list)
		}
		c.JSON(http.StatusOK, out)
		return
	}
	c.JSON(http.StatusOK, withTransitions(reqs))
}

// Get handles GET /admin/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	r, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, RequestResponse{Request: r, Transitions: core.AvailableTransitions(r.Status)})
}

// Update handles PUT /admin/requests/:id.
func (h *RequestHandler) Update(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	r, err := h.requests.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, RequestResponse{Request: r, Transitions: core.AvailableTransitions(r.Status)})
}

// UpdateStatus handles PATCH /admin/requests/:id/status.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required", err)
		return
	}
	r, err := h.requests.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, RequestResponse{Request: r, Transitions: core.AvailableTransitions(r.Status)})
}

// Delete handles DELETE /admin/requests/:id.
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign handles POST /admin/requests/:id/assign.
func (h *RequestHandler) Assign(c *gin.Context) {
	assignEntity(c, h.logger, h.requests.Assign)
}

// Stream handles GET /admin/requests/stream.
func (h *RequestHandler) Stream(c *gin.Context) {
	streamRequests(c, h.logger, h.requests.SubscribeAll)
}
