package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of an upload task
type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "queued"
	TaskStatusUploading TaskStatus = "uploading"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusError     TaskStatus = "error"
)

// IsTerminal reports whether no further transition is possible
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusError
}

// File is a file handed to a session by a shell
type File struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Content   []byte
}

// UploadResult is the success payload returned by a transport
type UploadResult struct {
	Payload map[string]any
	// Mock is set when the payload was synthesized locally instead of returned by a backend
	Mock bool
}

// UploadTask represents one file's upload lifecycle
type UploadTask struct {
	ID           uuid.UUID
	Name         string
	SizeBytes    int64
	MimeType     string
	Status       TaskStatus
	Progress     int
	Result       *UploadResult
	ErrorMessage string
	CreatedAt    time.Time
}

// Clone returns a copy that shares nothing with the receiver
func (t UploadTask) Clone() UploadTask {
	if t.Result != nil {
		payload := make(map[string]any, len(t.Result.Payload))
		for k, v := range t.Result.Payload {
			payload[k] = v
		}
		t.Result = &UploadResult{Payload: payload, Mock: t.Result.Mock}
	}
	return t
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	Surface Surface
	Tasks   []UploadTask
	Busy    bool
	Version uint64
}
