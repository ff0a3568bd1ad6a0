package view

import (
	"accountant-assistant/internal/core/domain"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// MockNote annotates tasks whose result was synthesized locally
const MockNote = "Mock response (backend endpoint TODO)"

// Task is the json view of an upload task
type Task struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	SizeBytes int64             `json:"size_bytes"`
	Size      string            `json:"size"`
	MimeType  string            `json:"mime_type"`
	Status    domain.TaskStatus `json:"status"`
	Progress  int               `json:"progress"`
	Result    map[string]any    `json:"result,omitempty"`
	Mock      bool              `json:"mock"`
	Error     string            `json:"error,omitempty"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
}

// Snapshot is the json view of an upload session
type Snapshot struct {
	Surface domain.Surface `json:"surface"`
	Tasks   []Task         `json:"tasks"`
	Busy    bool           `json:"busy"`
	Version uint64         `json:"version"`
}

// Surface is the json view of an upload surface
type Surface struct {
	Name   domain.Surface `json:"name"`
	Title  string         `json:"title"`
	Hint   string         `json:"hint"`
	Accept string         `json:"accept"`
}

// NewSnapshot renders a session snapshot
func NewSnapshot(s domain.Snapshot) Snapshot {
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, NewTask(t))
	}
	return Snapshot{Surface: s.Surface, Tasks: tasks, Busy: s.Busy, Version: s.Version}
}

// NewTask renders one task
func NewTask(t domain.UploadTask) Task {
	task := Task{
		ID:        t.ID,
		Name:      t.Name,
		SizeBytes: t.SizeBytes,
		Size:      FormatBytes(t.SizeBytes),
		MimeType:  t.MimeType,
		Status:    t.Status,
		Progress:  t.Progress,
		Error:     t.ErrorMessage,
		Notes:     Notes(t),
		CreatedAt: t.CreatedAt,
	}
	if t.Result != nil {
		task.Result = t.Result.Payload
		task.Mock = t.Result.Mock
	}
	return task
}

// NewSurface renders a surface description
func NewSurface(s domain.SurfaceInfo) Surface {
	return Surface{Name: s.Name, Title: s.Title, Hint: s.Hint, Accept: s.Accept}
}

// Notes is the error message of a failed task or the mock annotation of a mocked one
func Notes(t domain.UploadTask) string {
	switch {
	case t.Status == domain.TaskStatusError:
		return t.ErrorMessage
	case t.Status == domain.TaskStatusDone && t.Result != nil && t.Result.Mock:
		return MockNote
	default:
		return ""
	}
}

// FormatBytes renders a size for humans in base 1024, e.g. 1.5 KiB
func FormatBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
