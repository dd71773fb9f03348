package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-digest/internal/usecase/render"
	"github.com/johnquangdev/meeting-digest/pkg/config"
)

const summaryPrefix = "summaries/"

// SummaryArchive keeps rendered summary documents in a MinIO bucket
type SummaryArchive struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates the underlying MinIO client without touching the network
func NewMinIOClient(cfg *config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// NewSummaryArchive connects to MinIO and makes sure the bucket exists
func NewSummaryArchive(ctx context.Context, cfg *config.StorageConfig) (*SummaryArchive, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}

	archive := &SummaryArchive{client: client, bucket: cfg.BucketName}
	if err := archive.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return archive, nil
}

func (a *SummaryArchive) ensureBucket(ctx context.Context, region string) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey is where the document of a summary is stored
func ObjectKey(id uuid.UUID, format render.Format) string {
	return summaryPrefix + id.String() + "." + format.Extension()
}

// Archive uploads a rendered document and returns its object key
func (a *SummaryArchive) Archive(ctx context.Context, id uuid.UUID, format render.Format, document string) (string, error) {
	key := ObjectKey(id, format)
	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(document), int64(len(document)), minio.PutObjectOptions{
		ContentType: format.ContentType(),
		UserMetadata: map[string]string{
			"summary-id": id.String(),
			"format":     string(format),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}
	return key, nil
}

// DocumentURL returns a presigned download URL for an archived document
func (a *SummaryArchive) DocumentURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if !strings.HasPrefix(key, summaryPrefix) {
		return "", fmt.Errorf("not a summary object: %q", key)
	}
	u, err := a.client.PresignedGetObject(ctx, a.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}
