package upload

import "github.com/google/uuid"

func (s *session) onTick(id uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.index[id]
	if !ok || !entry.tick(s.increment(s.cfg.ProgressMaxIncrement), s.cfg.ProgressCap) {
		s.mu.Unlock()
		return
	}
	s.version++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}
