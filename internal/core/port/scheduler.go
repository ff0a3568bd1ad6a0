package port

import "time"

// Scheduler runs periodic actions
type Scheduler interface {
	// Every calls fn each interval until the returned cancel is called.
	// cancel is idempotent and stops future calls; a call already dispatched may still run.
	Every(interval time.Duration, fn func()) (cancel func())
}
