package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic scheduler driven by Advance, meant for tests
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	jobs   map[int]*manualJob
}

type manualJob struct {
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
}

// NewManual creates a Manual scheduler at time zero
func NewManual() *Manual {
	return &Manual{jobs: make(map[int]*manualJob)}
}

// Every registers fn to run each interval of virtual time
func (m *Manual) Every(interval time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.jobs[id] = &manualJob{id: id, interval: interval, next: m.now + interval, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.jobs, id)
			m.mu.Unlock()
		})
	}
}

// Advance moves virtual time forward and runs every due job in time order.
// Jobs run on the calling goroutine without the scheduler lock held.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		job := m.nextDueLocked(target)
		if job == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = job.next
		job.next += job.interval
		fn := job.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of active jobs
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *Manual) nextDueLocked(target time.Duration) *manualJob {
	due := make([]*manualJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		if job.next <= target {
			due = append(due, job)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next == due[j].next {
			return due[i].id < due[j].id
		}
		return due[i].next < due[j].next
	})
	return due[0]
}
