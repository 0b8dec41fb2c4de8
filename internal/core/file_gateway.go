package core

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"portal-backend-go/internal/blob"
)

// DefaultMaxFileSize is the upload size ceiling when none is configured.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Upload folders.
const (
	FolderDocuments = "documents"
	FolderInvoices  = "invoices"
)

// AllowedContentTypes are the MIME types accepted for upload.
var AllowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"image/jpeg":                   {},
	"image/png":                    {},
	"image/gif":                    {},
	"image/svg+xml":                {},
	"text/plain":                   {},
	"video/mp4":                    {},
	"video/avi":                    {},
	"video/quicktime":              {},
	"audio/mpeg":                   {},
	"audio/wav":                    {},
	"application/zip":              {},
	"application/x-rar-compressed": {},
}

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	stampPrefix     = regexp.MustCompile(`^\d+-`)
)

// File is an upload as received from a client.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadResult describes a stored file.
type UploadResult struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

// FileGateway validates uploads and moves them in and out of blob storage.
type FileGateway struct {
	store   blob.Store
	maxSize int64
	now     func() time.Time
	logger  *zap.Logger
}

// NewFileGateway creates a gateway. A nil store disables uploads; maxSize <= 0
// selects DefaultMaxFileSize.
func NewFileGateway(store blob.Store, maxSize int64, logger *zap.Logger) *FileGateway {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &FileGateway{store: store, maxSize: maxSize, now: time.Now, logger: logger}
}

// WithClock replaces the clock used to stamp object names.
func (g *FileGateway) WithClock(now func() time.Time) *FileGateway {
	g.now = now
	return g
}

// Configured reports whether a blob store is attached.
func (g *FileGateway) Configured() bool {
	return g.store != nil
}

// MaxSize returns the validator ceiling in bytes.
func (g *FileGateway) MaxSize() int64 {
	return g.maxSize
}

// Validate checks size first, then content type.
func (g *FileGateway) Validate(size int64, contentType string) error {
	if size > g.maxSize {
		return &FileError{Kind: ErrFileTooLarge, Message: "File size must be less than " + formatSize(g.maxSize)}
	}
	if _, ok := AllowedContentTypes[normalizeContentType(contentType)]; !ok {
		return &FileError{Kind: ErrFileTypeNotAllowed, Message: "File type not supported"}
	}
	return nil
}

// Upload validates f and stores it publicly under folder.
func (g *FileGateway) Upload(ctx context.Context, f File, folder string) (*UploadResult, error) {
	if folder == "" {
		folder = FolderDocuments
	}
	if folder != FolderDocuments && folder != FolderInvoices {
		return nil, invalidf("unknown upload folder %q", folder)
	}
	if err := g.Validate(f.Size, f.ContentType); err != nil {
		return nil, err
	}
	if g.store == nil {
		return nil, ErrStorageNotConfigured
	}

	key := ObjectName(folder, f.Name, g.now())
	contentType := normalizeContentType(f.ContentType)
	url, err := g.store.Put(ctx, key, f.Body, f.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %q: %w", f.Name, err)
	}
	g.logger.Info("File uploaded", zap.String("key", key), zap.Int64("size", f.Size))
	return &UploadResult{URL: url, FileName: f.Name, FileSize: f.Size, ContentType: contentType}, nil
}

// Delete removes the blob behind url. Failures are logged and swallowed so
// that callers can always proceed with deleting the owning record.
func (g *FileGateway) Delete(ctx context.Context, url string) {
	if url == "" || g.store == nil {
		return
	}
	if err := g.store.Delete(ctx, url); err != nil {
		g.logger.Warn("Failed to delete file from storage", zap.String("url", url), zap.Error(err))
	}
}

// ObjectName builds "<folder>/<epoch millis>-<sanitized name>".
func ObjectName(folder, name string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", folder, now.UnixMilli(), unsafeNameChars.ReplaceAllString(name, "_"))
}

// FileNameFromURL returns the display name of a stored file: the last path
// segment without its timestamp prefix.
func FileNameFromURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	base := path.Base(strings.ReplaceAll(url, "%2F", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return stampPrefix.ReplaceAllString(base, "")
}

func normalizeContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func formatSize(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
