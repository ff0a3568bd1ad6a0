package main

import (
	"accountant-assistant/internal/adapters/handlers/view"
	"accountant-assistant/internal/core/domain"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

type taskState struct {
	status   domain.TaskStatus
	progress int
}

// reporter prints one line per visible task change.
// Snapshots older than the last printed one are skipped.
type reporter struct {
	mu      sync.Mutex
	out     io.Writer
	version uint64
	seen    map[uuid.UUID]taskState
}

func newReporter(out io.Writer) *reporter {
	return &reporter{out: out, seen: make(map[uuid.UUID]taskState)}
}

func (r *reporter) report(snapshot domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snapshot.Version <= r.version {
		return
	}
	r.version = snapshot.Version

	for _, task := range snapshot.Tasks {
		state := taskState{status: task.Status, progress: task.Progress}
		if previous, ok := r.seen[task.ID]; ok && previous == state {
			continue
		}
		r.seen[task.ID] = state
		fmt.Fprintln(r.out, formatTask(task))
	}
}

func formatTask(task domain.UploadTask) string {
	line := fmt.Sprintf("%-32s %9s  %-9s %3d%%", task.Name, view.FormatBytes(task.SizeBytes), task.Status, task.Progress)
	if notes := view.Notes(task); notes != "" {
		line += "  " + notes
	}
	return line
}

func summary(snapshot domain.Snapshot) string {
	var done, failed, mocked int
	for _, task := range snapshot.Tasks {
		switch task.Status {
		case domain.TaskStatusDone:
			done++
			if task.Result != nil && task.Result.Mock {
				mocked++
			}
		case domain.TaskStatusError:
			failed++
		}
	}
	return fmt.Sprintf("%s: %d uploaded (%d mock), %d failed", snapshot.Surface, done, mocked, failed)
}
