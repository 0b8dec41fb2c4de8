package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
)

// UploadHandler accepts multipart file uploads and stores them through the
// file gateway.
type UploadHandler struct {
	files    *core.FileGateway
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates an UploadHandler. maxBytes is the per-file
// ceiling of the HTTP layer; the gateway applies its own validator limit.
func NewUploadHandler(files *core.FileGateway, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{files: files, maxBytes: maxBytes, logger: logger}
}

// Upload handles POST /uploads with a multipart "file" part and an optional
// "folder" field (documents or invoices).
func (h *UploadHandler) Upload(c *gin.Context) {
	// FormFile parses the multipart body. When the MaxBodySize middleware has
	// wrapped the body in http.MaxBytesReader, an oversized stream surfaces
	// here as *http.MaxBytesError rather than as a missing file.
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "Request body too large",
				Details: fmt.Sprintf("maximum request size is %d bytes", tooLarge.Limit),
			})
			return
		}
		badRequest(c, "No file provided", err)
		return
	}
	// A single part can still exceed the per-file ceiling when the request
	// slack allowed it through the body limit.
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "File too large",
			Details: fmt.Sprintf("maximum upload size is %d bytes", h.maxBytes),
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	// Type and size validation happen in the gateway; the declared part
	// Content-Type is what the browser reported for the file.
	res, err := h.files.Upload(c.Request.Context(), core.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, c.PostForm("folder"))
	if err != nil {
		mapServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
