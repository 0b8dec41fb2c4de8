package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

const gcsPublicHost = "https://storage.googleapis.com/"

// GCSStore keeps objects in a Cloud Storage bucket, normally the Firebase
// project's default bucket.
type GCSStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewGCSStore wraps an opened bucket handle.
func NewGCSStore(bucket *storage.BucketHandle, bucketName string) *GCSStore {
	return &GCSStore{bucket: bucket, bucketName: bucketName}
}

func (s *GCSStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"
	if size > 0 && size < int64(w.ChunkSize) {
		// Single request upload for small objects.
		w.ChunkSize = 0
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gs://%s/%s: %w", s.bucketName, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize gs://%s/%s: %w", s.bucketName, key, err)
	}
	return s.PublicURL(key), nil
}

func (s *GCSStore) Delete(ctx context.Context, rawURL string) error {
	key, err := s.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gs://%s/%s: %w", s.bucketName, key, ErrNotFound)
		}
		return fmt.Errorf("delete gs://%s/%s: %w", s.bucketName, key, err)
	}
	return nil
}

// PublicURL returns the public URL of key.
func (s *GCSStore) PublicURL(key string) string {
	return gcsPublicHost + s.bucketName + "/" + key
}

// KeyFromURL accepts both public object URLs and Firebase download URLs
// (https://firebasestorage.googleapis.com/v0/b/<bucket>/o/<escaped key>?...).
func (s *GCSStore) KeyFromURL(rawURL string) (string, error) {
	if prefix := gcsPublicHost + s.bucketName + "/"; strings.HasPrefix(rawURL, prefix) {
		key := strings.TrimPrefix(rawURL, prefix)
		if i := strings.IndexByte(key, '?'); i >= 0 {
			key = key[:i]
		}
		return url.PathUnescape(key)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignURL, err)
	}
	if u.Host == "firebasestorage.googleapis.com" {
		prefix := "/v0/b/" + s.bucketName + "/o/"
		if strings.HasPrefix(u.Path, prefix) {
			return strings.TrimPrefix(u.Path, prefix), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
}
