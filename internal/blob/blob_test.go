package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCSStore_URLs(t *testing.T) {
	s := NewGCSStore(nil, "portal-files")

	url := s.PublicURL("documents/1700000000000-report.pdf")
	assert.Equal(t, "https://storage.googleapis.com/portal-files/documents/1700000000000-report.pdf", url)

	key, err := s.KeyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "documents/1700000000000-report.pdf", key)

	key, err = s.KeyFromURL("https://firebasestorage.googleapis.com/v0/b/portal-files/o/invoices%2F1700000000000-q1.pdf?alt=media&token=abc")
	require.NoError(t, err)
	assert.Equal(t, "invoices/1700000000000-q1.pdf", key)

	_, err = s.KeyFromURL("https://storage.googleapis.com/other-bucket/a.pdf")
	assert.ErrorIs(t, err, ErrForeignURL)

	_, err = s.KeyFromURL("https://example.com/a.pdf")
	assert.ErrorIs(t, err, ErrForeignURL)
}

func TestS3Store_URLs(t *testing.T) {
	tests := []struct {
		name string
		opts S3Options
		want string
	}{
		{"aws", S3Options{Region: "eu-west-1", Bucket: "files"}, "https://files.s3.eu-west-1.amazonaws.com/documents/a.pdf"},
		{"custom endpoint", S3Options{Region: "auto", Bucket: "files", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/files/documents/a.pdf"},
		{"public base", S3Options{Region: "auto", Bucket: "files", PublicBaseURL: "https://cdn.example.com"}, "https://cdn.example.com/documents/a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewS3StoreWithClient(nil, tt.opts)
			assert.Equal(t, tt.want, s.PublicURL("documents/a.pdf"))

			key, err := s.KeyFromURL(tt.want)
			require.NoError(t, err)
			assert.Equal(t, "documents/a.pdf", key)

			_, err = s.KeyFromURL("https://elsewhere.example.com/documents/a.pdf")
			assert.ErrorIs(t, err, ErrForeignURL)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("https://blobs.test/")

	url, err := s.Put(ctx, "documents/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/documents/a.txt", url)
	assert.Equal(t, 1, s.Puts())

	obj, ok := s.Get("documents/a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(obj.Data))
	assert.Equal(t, "text/plain", obj.ContentType)

	require.NoError(t, s.Delete(ctx, url))
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Delete(ctx, url), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "https://other/x"), ErrForeignURL)
}
