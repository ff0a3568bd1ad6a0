package minio

import (
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an upload transport storing files in a minio bucket
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
	now    func() time.Time
}

var _ port.UploadTransport = (*Adapter)(nil)

// NewAdapter returns Adapter, creating the bucket when missing
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger, now: time.Now}, nil
}

// Upload puts the file under <surface>/<upload id>/<file name>
func (a *Adapter) Upload(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error) {
	uploadID := uuid.New()
	key := ObjectKey(surface.Name, uploadID, file.Name)

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := a.client.PutObject(ctx, a.config.BucketName, key, bytes.NewReader(file.Content), int64(len(file.Content)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"Original-Filename": file.Name,
			"Surface":           string(surface.Name),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewUploadFailure("upload cancelled", ctx.Err())
		}
		return nil, domain.NewUploadFailure("storage rejected the file", err)
	}

	a.logger.Info("object stored",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName),
		slog.Int64("size", info.Size))

	payload := map[string]any{
		"ok":         true,
		"uploadId":   uploadID.String(),
		"key":        key,
		"etag":       info.ETag,
		"size":       info.Size,
		"receivedAt": a.now().UTC().Format(time.RFC3339),
	}

	if a.config.DownloadSignedURLDuration > 0 {
		url, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.DownloadSignedURLDuration, nil)
		if err != nil {
			a.logger.Warn("failed to generate presigned download URL", "key", key, "error", err)
		} else {
			payload["url"] = url.String()
		}
	}

	return &domain.UploadResult{Payload: payload}, nil
}

// ObjectKey builds the storage key of an upload
func ObjectKey(surface domain.Surface, uploadID uuid.UUID, filename string) string {
	return path.Join(string(surface), uploadID.String(), path.Base("/"+filename))
}
