package scheduler

import (
	"accountant-assistant/internal/core/port"
	"sync"
	"time"
)

// Ticker schedules periodic actions on time.Ticker goroutines
type Ticker struct{}

// NewTicker returns a time based scheduler
func NewTicker() port.Scheduler {
	return Ticker{}
}

// Every runs fn on its own goroutine every interval until cancel is called.
// cancel never waits for a running fn, so it is safe to call while holding a lock fn needs.
func (Ticker) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// done wins over a tick that fired at the same time
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
