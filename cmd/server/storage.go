package main

import (
	"context"

	fb "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"portal-backend-go/internal/blob"
	"portal-backend-go/internal/config"
)

// newBlobStore opens the configured object store. It returns nil when no
// bucket is configured, which disables uploads.
func newBlobStore(ctx context.Context, app *fb.App, cfg *config.Config, logger *zap.Logger) blob.Store {
	if cfg.StorageBucket == "" {
		logger.Warn("STORAGE_BUCKET is not set; uploads are disabled")
		return nil
	}

	switch cfg.BlobProvider {
	case "s3":
		store, err := blob.NewS3Store(ctx, blob.S3Options{
			Region:        cfg.S3Region,
			Bucket:        cfg.StorageBucket,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.BlobPublicBaseURL,
		})
		if err != nil {
			logger.Fatal("CRITICAL_ERROR: Failed to open S3 bucket", zap.Error(err))
		}
		logger.Info("Using S3 blob storage", zap.String("bucket", cfg.StorageBucket))
		return store
	default:
		client, err := app.Storage(ctx)
		if err != nil {
			logger.Fatal("CRITICAL_ERROR: Failed to get Firebase Storage client", zap.Error(err))
		}
		bucket, err := client.Bucket(cfg.StorageBucket)
		if err != nil {
			logger.Fatal("CRITICAL_ERROR: Failed to open storage bucket", zap.Error(err))
		}
		logger.Info("Using Cloud Storage blobs", zap.String("bucket", cfg.StorageBucket))
		return blob.NewGCSStore(bucket, cfg.StorageBucket)
	}
}
