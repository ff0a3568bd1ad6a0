package upload

import (
	"accountant-assistant/internal/core/domain"
	"sync"
)

// Subscribe registers fn for every session change.
// Snapshots may be delivered out of order across goroutines; consumers keep the highest Version.
func (s *session) Subscribe(fn func(domain.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *session) publish(snapshot domain.Snapshot) {
	s.mu.Lock()
	subscribers := make([]func(domain.Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
