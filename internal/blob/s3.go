package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures an S3Store. Endpoint selects an S3 compatible service
// (MinIO, R2) and switches to path-style addressing.
type S3Options struct {
	Region        string
	Bucket        string
	Endpoint      string
	PublicBaseURL string
}

// S3Store keeps objects in an S3 bucket.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store loads AWS credentials from the environment and opens a client.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, opts), nil
}

// NewS3StoreWithClient builds a store on an existing client.
func NewS3StoreWithClient(client *s3.Client, opts S3Options) *S3Store {
	return &S3Store{client: client, bucket: opts.Bucket, baseURL: publicBaseURL(opts)}
}

func publicBaseURL(opts S3Options) string {
	switch {
	case opts.PublicBaseURL != "":
		return strings.TrimSuffix(opts.PublicBaseURL, "/") + "/"
	case opts.Endpoint != "":
		return strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket + "/"
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", opts.Bucket, opts.Region)
	}
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	// PutObject needs a seekable body to sign the payload.
	buf := bytes.NewBuffer(make([]byte, 0, max(size, 0)))
	if _, err := io.Copy(buf, body); err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return s.PublicURL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("s3://%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return fmt.Errorf("delete s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// PublicURL returns the public URL of key.
func (s *S3Store) PublicURL(key string) string {
	return s.baseURL + key
}

// KeyFromURL strips the store's public base from rawURL.
func (s *S3Store) KeyFromURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, s.baseURL) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	key := strings.TrimPrefix(rawURL, s.baseURL)
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	return url.PathUnescape(key)
}
