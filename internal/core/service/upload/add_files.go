package upload

import (
	"accountant-assistant/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// AddFiles enqueues one task per file, in input order, and starts every upload at once
func (s *session) AddFiles(ctx context.Context, files []domain.File) []uuid.UUID {
	if len(files) == 0 {
		return nil
	}

	// uploads must outlive the caller, e.g. an http request
	baseCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(files))
	entries := make([]*taskEntry, 0, len(files))
	uploadCtxs := make([]context.Context, 0, len(files))
	for _, file := range files {
		entry := &taskEntry{
			task: domain.UploadTask{
				ID:        uuid.New(),
				Name:      file.Name,
				SizeBytes: file.SizeBytes,
				MimeType:  file.MimeType,
				Status:    domain.TaskStatusQueued,
				CreatedAt: s.now(),
			},
			notifyCtx: baseCtx,
		}
		s.tasks = append(s.tasks, entry)
		s.index[entry.task.ID] = entry
		ids = append(ids, entry.task.ID)
		entries = append(entries, entry)
	}

	// Queued -> Uploading happens in the same critical section as the enqueue
	for _, entry := range entries {
		id := entry.task.ID
		entry.start(s.cfg.ProgressSeed)
		uploadCtx, cancel := context.WithCancel(baseCtx)
		entry.cancel = cancel
		entry.stopTick = s.scheduler.Every(s.cfg.TickInterval, func() { s.onTick(id) })
		uploadCtxs = append(uploadCtxs, uploadCtx)
	}
	s.version++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("files enqueued", "count", len(files))
	s.publish(snapshot)

	for i, file := range files {
		go s.runUpload(uploadCtxs[i], ids[i], file)
	}

	return ids
}
