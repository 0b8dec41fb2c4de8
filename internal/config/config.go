package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxFileBytes is the validator ceiling applied to every upload.
	DefaultMaxFileBytes int64 = 10 * 1024 * 1024
	// DefaultUploadMaxBytes is the stricter ceiling imposed by the HTTP layer
	// (serverless hosts commonly cap request bodies around 4.5MB).
	DefaultUploadMaxBytes int64 = 4 * 1024 * 1024
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	ClientURL   string `mapstructure:"CLIENT_URL"`
	AdminEmails string `mapstructure:"ADMIN_EMAILS"` // comma separated

	// Blob storage. Uploads are disabled when StorageBucket is empty.
	BlobProvider      string `mapstructure:"BLOB_PROVIDER"` // "gcs" or "s3"
	StorageBucket     string `mapstructure:"STORAGE_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	BlobPublicBaseURL string `mapstructure:"BLOB_PUBLIC_BASE_URL"`
	MaxFileBytes      int64  `mapstructure:"MAX_FILE_BYTES"`
	UploadMaxBytes    int64  `mapstructure:"UPLOAD_MAX_BYTES"`

	// Email
	ResendAPIKey             string `mapstructure:"RESEND_API_KEY"`
	FromEmail                string `mapstructure:"FROM_EMAIL"`
	NotifyEmail              string `mapstructure:"NOTIFY_EMAIL"`
	PasswordResetContinueURL string `mapstructure:"PASSWORD_RESET_CONTINUE_URL"`

	// Rate limiting for password resets. An empty RedisURL selects the
	// in-process limiter.
	RedisURL        string        `mapstructure:"REDIS_URL"`
	ResetRateLimit  int           `mapstructure:"RESET_RATE_LIMIT"`
	ResetRateWindow time.Duration `mapstructure:"RESET_RATE_WINDOW"`

	// Ticket lifecycle events. Publishing is disabled when AMQPURL is empty.
	AMQPURL   string `mapstructure:"AMQP_URL"`
	AMQPQueue string `mapstructure:"AMQP_QUEUE"`
}

var keys = []string{
	"PORT",
	"GIN_MODE",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"CLIENT_URL",
	"ADMIN_EMAILS",
	"BLOB_PROVIDER",
	"STORAGE_BUCKET",
	"S3_REGION",
	"S3_ENDPOINT",
	"BLOB_PUBLIC_BASE_URL",
	"MAX_FILE_BYTES",
	"UPLOAD_MAX_BYTES",
	"RESEND_API_KEY",
	"FROM_EMAIL",
	"NOTIFY_EMAIL",
	"PASSWORD_RESET_CONTINUE_URL",
	"REDIS_URL",
	"RESET_RATE_LIMIT",
	"RESET_RATE_WINDOW",
	"AMQP_URL",
	"AMQP_QUEUE",
}

// LoadConfig loads configuration from environment variables using Viper.
// Each call uses its own viper instance, so the result depends only on the
// current environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("BLOB_PROVIDER", "gcs")
	v.SetDefault("MAX_FILE_BYTES", DefaultMaxFileBytes)
	v.SetDefault("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)
	v.SetDefault("FROM_EMAIL", "noreply@yourdomain.com")
	v.SetDefault("RESET_RATE_LIMIT", 5)
	v.SetDefault("RESET_RATE_WINDOW", time.Hour)
	v.SetDefault("AMQP_QUEUE", "portal.tickets")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	switch c.BlobProvider {
	case "gcs", "s3":
	default:
		return fmt.Errorf("BLOB_PROVIDER must be gcs or s3, got %q", c.BlobProvider)
	}
	if c.BlobProvider == "s3" && c.StorageBucket != "" && c.S3Region == "" {
		return errors.New("S3_REGION is required when BLOB_PROVIDER is s3")
	}
	if c.MaxFileBytes <= 0 {
		return errors.New("MAX_FILE_BYTES must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if c.ResetRateLimit <= 0 {
		return errors.New("RESET_RATE_LIMIT must be positive")
	}
	if c.ResetRateWindow <= 0 {
		return errors.New("RESET_RATE_WINDOW must be positive")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// AdminEmailList returns the trimmed, lower-cased admin allow-list.
func (c *Config) AdminEmailList() []string {
	var out []string
	for _, e := range strings.Split(c.AdminEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
