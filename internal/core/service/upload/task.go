package upload

import (
	"accountant-assistant/internal/core/domain"
	"context"
)

// taskEntry is a task plus the bookkeeping of its in-flight upload.
// Every method must be called with the session lock held.
type taskEntry struct {
	task     domain.UploadTask
	stopTick func()
	cancel   context.CancelFunc
	// notifyCtx outlives the upload context so terminal notifications are never cancelled
	notifyCtx context.Context
}

func (e *taskEntry) start(seed int) bool {
	if e.task.Status != domain.TaskStatusQueued {
		return false
	}
	e.task.Status = domain.TaskStatusUploading
	e.task.Progress = seed
	e.task.ErrorMessage = ""
	return true
}

func (e *taskEntry) tick(increment, ceiling int) bool {
	if e.task.Status != domain.TaskStatusUploading {
		return false
	}
	next := min(ceiling, e.task.Progress+increment)
	if next <= e.task.Progress {
		return false
	}
	e.task.Progress = next
	return true
}

func (e *taskEntry) succeed(result *domain.UploadResult) bool {
	if e.task.Status != domain.TaskStatusUploading {
		return false
	}
	e.release()
	e.task.Status = domain.TaskStatusDone
	e.task.Progress = 100
	e.task.Result = result
	return true
}

func (e *taskEntry) fail(message string) bool {
	if e.task.Status != domain.TaskStatusUploading {
		return false
	}
	e.release()
	e.task.Status = domain.TaskStatusError
	e.task.Progress = 0
	e.task.ErrorMessage = message
	return true
}

// release stops the progress tick and the upload context
func (e *taskEntry) release() {
	if e.stopTick != nil {
		e.stopTick()
		e.stopTick = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
