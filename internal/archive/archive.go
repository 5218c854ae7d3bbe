// Package archive uploads CSV exports to an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const csvContentType = "text/csv; charset=utf-8"

// objectStore is the part of *minio.Client the archive uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archive writes exports under "exports/<section>/" in one bucket.
type Archive struct {
	store  objectStore
	bucket string
}

// New connects to the configured endpoint. It returns util.ErrArchiveDisabled
// when no endpoint or bucket is configured.
func New(cfg config.ArchiveConfig) (*Archive, error) {
	if !cfg.Enabled() {
		return nil, util.ErrArchiveDisabled
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Archive{store: client, bucket: cfg.Bucket}, nil
}

// Upload stores body as exports/<section>/<name>, creating the bucket on
// first use, and returns the object location.
func (a *Archive) Upload(ctx context.Context, section, name string, body []byte) (string, error) {
	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	key := path.Join("exports", section, name)
	_, err = a.store.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: csvContentType,
		UserMetadata: map[string]string{
			"section": section,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
