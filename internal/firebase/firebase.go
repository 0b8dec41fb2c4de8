package firebase

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"portal-backend-go/internal/config"
)

// NewApp initializes the Firebase Admin SDK from cfg.
//
// Credentials are taken from GOOGLE_APPLICATION_CREDENTIALS (a file path),
// then FIREBASE_SERVICE_ACCOUNT_JSON_BASE64, and finally Application Default
// Credentials when neither is set.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firebase.App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("firebase.NewApp: config cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleApplicationCredentials != "":
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist", zap.String("path", cfg.GoogleApplicationCredentials))
		}
		logger.Info("Initializing Firebase with credentials file", zap.String("path", cfg.GoogleApplicationCredentials))
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		logger.Info("Initializing Firebase with base64 encoded service account JSON")
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	fbConfig := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	if cfg.BlobProvider == "gcs" && cfg.StorageBucket != "" {
		fbConfig.StorageBucket = cfg.StorageBucket
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	logger.Info("Firebase app initialized", zap.String("projectId", cfg.FirebaseProjectID))
	return app, nil
}
