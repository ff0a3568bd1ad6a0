package port

import (
	"accountant-assistant/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// UploadSessionService owns the upload tasks of one surface
type UploadSessionService interface {
	Surface() domain.Surface
	AddFiles(ctx context.Context, files []domain.File) []uuid.UUID
	Clear()
	IsBusy() bool
	Snapshot() domain.Snapshot
	Subscribe(fn func(domain.Snapshot)) (unsubscribe func())
}

// SessionRegistry holds one independent session per surface
type SessionRegistry interface {
	Session(surface domain.Surface) (UploadSessionService, error)
	Surfaces() []domain.SurfaceInfo
}
