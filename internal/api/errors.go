package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/db"
)

// mapServiceError writes the HTTP reply for an error returned by a core
// service. Unclassified errors are logged and reported as a generic 500.
//
// Matching is done with errors.Is / errors.As against the sentinel errors of
// the core package, so services are free to wrap them with context (for
// example "request not found: 'abc'") without affecting the status code.
// Client-facing 4xx replies are not logged here; the request logger already
// records their status.
func mapServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var fileErr *core.FileError
	switch {
	// Upload validation failures carry a user-facing message of their own.
	case errors.As(err, &fileErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fileErr.Message})

	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrIdentityArgument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})

	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrProjectNotFound),
		errors.Is(err, core.ErrInvoiceNotFound),
		errors.Is(err, core.ErrDocumentNotFound),
		errors.Is(err, core.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Details: err.Error()})

	case errors.Is(err, core.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No account found with this email address"})

	case errors.Is(err, core.ErrEmailExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "The email address is already in use by another account"})

	case errors.Is(err, core.ErrTooManyRequests), errors.Is(err, core.ErrIdentityRateLimit):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests, please try again later"})

	case errors.Is(err, db.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Permission denied"})

	case errors.Is(err, core.ErrStorageNotConfigured):
		logger.Error("Upload attempted without a storage backend", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "File storage is not configured"})

	case errors.Is(err, core.ErrEmailNotConfigured):
		logger.Error("Email attempted without an API key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Email service not configured"})

	case errors.Is(err, core.ErrEmailRejected):
		logger.Error("Email provider rejected message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to send email", Details: err.Error()})

	default:
		// Anything unrecognised is an internal fault. The details stay in the
		// log and the client only gets a generic message.
		logger.Error("Internal server error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
