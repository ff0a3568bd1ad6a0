package port

import (
	"accountant-assistant/internal/core/domain"
	"context"
)

// UploadTransport performs the actual file submission.
// Ordinary network or validation failures are returned as errors whose text is shown to the user.
type UploadTransport interface {
	Upload(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error)
}
