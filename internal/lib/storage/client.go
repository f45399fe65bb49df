// Package storage issues presigned download URLs for objects kept in an
// S3-compatible store (MinIO in development).
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultURLExpiry applies when the configured expiry is zero.
const DefaultURLExpiry = time.Hour

var (
	// ErrDisabled is returned by every operation when no endpoint is configured.
	ErrDisabled = errors.New("storage service not configured")
	// ErrInvalidObjectName rejects empty keys and keys escaping the bucket.
	ErrInvalidObjectName = errors.New("invalid object name")
)

// Client presigns object URLs within a single bucket.
type Client struct {
	mc      *minio.Client
	bucket  string
	expiry  time.Duration
	enabled bool
}

// NewClient builds a client from cfg. An empty endpoint yields a disabled
// client rather than an error, so the rest of the API can still start.
func NewClient(cfg config.StorageConfig) (*Client, error) {
	if !cfg.Enabled() {
		return &Client{}, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	// Setting the region up front keeps presigning offline: minio-go would
	// otherwise look up the bucket location on first use.
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}

	return &Client{mc: mc, bucket: cfg.Bucket, expiry: expiry, enabled: true}, nil
}

// Enabled reports whether an object store is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// PresignGet returns a time-limited GET URL for objectName.
func (c *Client) PresignGet(ctx context.Context, objectName string) (*url.URL, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	if err := validateObjectName(objectName); err != nil {
		return nil, err
	}

	u, err := c.mc.PresignedGetObject(ctx, c.bucket, objectName, c.expiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign %s/%s: %w", c.bucket, objectName, err)
	}
	return u, nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}

	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", c.bucket)
	}
	return nil
}

func validateObjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidObjectName)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidObjectName, name)
		}
	}
	return nil
}
