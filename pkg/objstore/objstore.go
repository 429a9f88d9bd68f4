// Package objstore wraps an S3-compatible object store (R2, OSS, COS, AWS
// S3, MinIO) behind the small surface the snapshot-sync protocol needs.
package objstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"stock-storage/config"
	"stock-storage/pkg/logger"
)

// Store is what the remote backend depends on. A missing object reports
// (false, nil) from Exists; only transport and credential problems surface
// as errors.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Download(ctx context.Context, key, path string) error
	Upload(ctx context.Context, key, path string) error
}

// Client implements Store on top of minio-go.
type Client struct {
	mc     *minio.Client
	bucket string
	log    *logger.Logger
}

// New builds a client from the remote configuration. The endpoint is a URL;
// its scheme decides whether TLS is used.
func New(cfg config.Remote, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint url %q: %w", cfg.Endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint url %q: missing host", cfg.Endpoint)
	}

	mc, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: u.Scheme == "https",
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	log.Info("object store client ready",
		zap.String("endpoint", u.Host),
		zap.String("bucket", cfg.Bucket))

	return &Client{mc: mc, bucket: cfg.Bucket, log: log}, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.mc.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
	return true, nil
}

func (c *Client) Download(ctx context.Context, key, path string) error {
	if err := c.mc.FGetObject(ctx, c.bucket, key, path, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download object %s: %w", key, err)
	}
	return nil
}

func (c *Client) Upload(ctx context.Context, key, path string) error {
	_, err := c.mc.FPutObject(ctx, c.bucket, key, path, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	return nil
}
