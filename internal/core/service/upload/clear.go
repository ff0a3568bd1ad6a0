package upload

import "github.com/google/uuid"

// Clear discards every task. In-flight uploads are cancelled and their outcomes ignored.
func (s *session) Clear() {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}
	discarded := len(s.tasks)
	for _, entry := range s.tasks {
		entry.release()
	}
	s.tasks = nil
	s.index = make(map[uuid.UUID]*taskEntry)
	s.version++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session cleared", "discarded", discarded)
	s.publish(snapshot)
}
