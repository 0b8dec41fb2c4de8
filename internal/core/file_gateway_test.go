package core

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portal-backend-go/internal/blob"
)

func TestFileGateway_Validate(t *testing.T) {
	g := NewFileGateway(nil, 0, zap.NewNop())

	tests := []struct {
		name        string
		size        int64
		contentType string
		kind        error
		message     string
	}{
		{name: "pdf", size: 1024, contentType: "application/pdf"},
		{name: "with params", size: 10, contentType: "text/plain; charset=utf-8"},
		{name: "exactly at ceiling", size: DefaultMaxFileSize, contentType: "image/png"},
		{name: "too large", size: DefaultMaxFileSize + 1, contentType: "image/png", kind: ErrFileTooLarge, message: "File size must be less than 10MB"},
		{name: "bad type", size: 10, contentType: "application/x-msdownload", kind: ErrFileTypeNotAllowed, message: "File type not supported"},
		{name: "size checked first", size: DefaultMaxFileSize + 1, contentType: "application/x-msdownload", kind: ErrFileTooLarge, message: "File size must be less than 10MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.size, tt.contentType)
			if tt.kind == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, err.Error())
			var fe *FileError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestFileGateway_Upload(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemoryStore("https://files.example.test")
	now := time.UnixMilli(1700000000123)
	g := NewFileGateway(blobs, 0, zap.NewNop()).WithClock(func() time.Time { return now })

	body := []byte("%PDF-1.4 invoice")
	res, err := g.Upload(ctx, File{Name: "March invoice (final).pdf", Size: int64(len(body)), ContentType: "application/pdf", Body: bytes.NewReader(body)}, FolderInvoices)
	require.NoError(t, err)

	wantKey := "invoices/1700000000123-March_invoice__final_.pdf"
	assert.Equal(t, "https://files.example.test/"+wantKey, res.URL)
	assert.Equal(t, "March invoice (final).pdf", res.FileName)
	assert.Equal(t, int64(len(body)), res.FileSize)
	assert.Equal(t, "application/pdf", res.ContentType)

	obj, ok := blobs.Get(wantKey)
	require.True(t, ok)
	assert.Equal(t, body, obj.Data)
	assert.Equal(t, "March_invoice__final_.pdf", FileNameFromURL(res.URL))
}

func TestFileGateway_UploadDefaultsToDocuments(t *testing.T) {
	blobs := blob.NewMemoryStore("https://files.example.test")
	g := NewFileGateway(blobs, 0, zap.NewNop())

	res, err := g.Upload(context.Background(), File{Name: "a.txt", Size: 1, ContentType: "text/plain", Body: bytes.NewReader([]byte("a"))}, "")
	require.NoError(t, err)
	assert.Contains(t, res.URL, "/documents/")
}

func TestFileGateway_UploadRejections(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewMemoryStore("https://files.example.test")
	const ceiling = 4 * 1024 * 1024
	g := NewFileGateway(blobs, ceiling, zap.NewNop())

	big := File{Name: "big.mp4", Size: 5 * 1024 * 1024, ContentType: "video/mp4", Body: bytes.NewReader(nil)}
	_, err := g.Upload(ctx, big, FolderDocuments)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, "File size must be less than 4MB", err.Error())
	assert.Zero(t, blobs.Puts())

	_, err = g.Upload(ctx, File{Name: "a.txt", Size: 1, ContentType: "text/plain", Body: bytes.NewReader([]byte("a"))}, "secrets")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, blobs.Puts())

	unconfigured := NewFileGateway(nil, 0, zap.NewNop())
	assert.False(t, unconfigured.Configured())
	_, err = unconfigured.Upload(ctx, File{Name: "a.txt", Size: 1, ContentType: "text/plain", Body: bytes.NewReader([]byte("a"))}, "")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func TestFileGateway_DeleteSwallowsErrors(t *testing.T) {
	blobs := blob.NewMemoryStore("https://files.example.test")
	blobs.DeleteErr = errors.New("bucket offline")
	g := NewFileGateway(blobs, 0, zap.NewNop())

	assert.NotPanics(t, func() {
		g.Delete(context.Background(), "https://files.example.test/documents/1-a.txt")
		g.Delete(context.Background(), "")
	})
}

func TestFileNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://storage.googleapis.com/bucket/documents/1700000000000-report.pdf":                       "report.pdf",
		"https://firebasestorage.googleapis.com/v0/b/app/o/invoices%2F1700000000000-inv.pdf?alt=media": "inv.pdf",
		"https://cdn.example.test/no-prefix.png":                                                         "no-prefix.png",
		"": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileNameFromURL(in), in)
	}
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "documents/42-r_sum_.pdf", ObjectName("documents", "résumé.pdf", time.UnixMilli(42)))
}
