package upload

import (
	"accountant-assistant/internal/core/domain"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const defaultFailureMessage = "Upload failed"

func (s *session) runUpload(ctx context.Context, id uuid.UUID, file domain.File) {
	result, err := s.callTransport(ctx, file)
	if err != nil {
		s.resolve(id, nil, failureMessage(err))
		return
	}
	if result == nil {
		result = &domain.UploadResult{}
	}
	if result.Payload == nil {
		result.Payload = map[string]any{}
	}
	s.resolve(id, result, "")
}

// callTransport turns a transport panic into an ordinary failure
func (s *session) callTransport(ctx context.Context, file domain.File) (result *domain.UploadResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("upload transport panicked", "file", file.Name, "panic", r)
			result, err = nil, domain.NewUploadFailure(defaultFailureMessage, fmt.Errorf("panic: %v", r))
		}
	}()
	return s.transport.Upload(ctx, s.surface, file)
}

func failureMessage(err error) string {
	var failure *domain.UploadFailure
	if errors.As(err, &failure) && failure.Message != "" {
		return failure.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultFailureMessage
}

// resolve applies the terminal transition of a task, unless it was discarded meanwhile
func (s *session) resolve(id uuid.UUID, result *domain.UploadResult, message string) {
	s.mu.Lock()
	entry, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("ignoring outcome of discarded task", "task_id", id)
		return
	}

	var applied bool
	if result != nil {
		applied = entry.succeed(result)
	} else {
		applied = entry.fail(message)
	}
	if !applied {
		s.mu.Unlock()
		return
	}

	s.version++
	task := entry.task.Clone()
	notifyCtx := entry.notifyCtx
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
	s.notify(notifyCtx, task)
}

func (s *session) notify(ctx context.Context, task domain.UploadTask) {
	notification := domain.Notification{
		Surface:  s.surface.Name,
		TaskID:   task.ID,
		FileName: task.Name,
		At:       s.now(),
	}

	switch task.Status {
	case domain.TaskStatusDone:
		notification.Level = domain.NotificationLevelSuccess
		notification.Mock = task.Result.Mock
		notification.Message = fmt.Sprintf("%s: uploaded %q", s.surface.Title, task.Name)
		if task.Result.Mock {
			notification.Message += " (mock)"
		}
		s.logger.Info("upload done", "task_id", task.ID, "file", task.Name, "mock", task.Result.Mock)
	case domain.TaskStatusError:
		notification.Level = domain.NotificationLevelError
		notification.Message = fmt.Sprintf("%s: %s", s.surface.Title, task.ErrorMessage)
		s.logger.Warn("upload failed", "task_id", task.ID, "file", task.Name, "error", task.ErrorMessage)
	default:
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		s.logger.Error("failed to deliver notification", "task_id", task.ID, "error", err)
	}
}
