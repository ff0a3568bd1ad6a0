package transport

import (
	"accountant-assistant/internal/adapters/transport/backend"
	"accountant-assistant/internal/adapters/transport/minio"
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/port"
	"context"
	"fmt"
	"log/slog"
)

// New builds the upload transport selected by UPLOAD_TRANSPORT
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.UploadTransport, error) {
	switch cfg.Upload.Transport {
	case config.TransportHTTP:
		return backend.NewClient(cfg.Backend, nil, logger), nil
	case config.TransportMinio:
		adapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio: %w", err)
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Upload.Transport)
	}
}
