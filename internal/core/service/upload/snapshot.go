package upload

import "accountant-assistant/internal/core/domain"

func (s *session) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyLocked()
}

func (s *session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *session) busyLocked() bool {
	for _, entry := range s.tasks {
		if entry.task.Status == domain.TaskStatusUploading {
			return true
		}
	}
	return false
}

func (s *session) snapshotLocked() domain.Snapshot {
	tasks := make([]domain.UploadTask, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.task.Clone())
	}
	return domain.Snapshot{
		Surface: s.surface.Name,
		Tasks:   tasks,
		Busy:    s.busyLocked(),
		Version: s.version,
	}
}
