package upload

import (
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	mu sync.Mutex

	surface   domain.SurfaceInfo
	transport port.UploadTransport
	scheduler port.Scheduler
	notifier  port.Notifier
	cfg       config.UploadConfig
	logger    *slog.Logger

	increment func(limit int) int
	now       func() time.Time

	tasks   []*taskEntry
	index   map[uuid.UUID]*taskEntry
	version uint64

	subscribers map[uint64]func(domain.Snapshot)
	nextSubID   uint64
}

// Option customizes a session
type Option func(*session)

// WithIncrement replaces the random progress increment, fn returns a value in [0, limit]
func WithIncrement(fn func(limit int) int) Option {
	return func(s *session) {
		s.increment = fn
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *session) {
		s.now = now
	}
}

// NewUploadSession creates the upload session of one surface
func NewUploadSession(
	surface domain.SurfaceInfo,
	transport port.UploadTransport,
	scheduler port.Scheduler,
	notifier port.Notifier,
	cfg config.UploadConfig,
	logger *slog.Logger,
	opts ...Option,
) port.UploadSessionService {
	s := &session{
		surface:     surface,
		transport:   transport,
		scheduler:   scheduler,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger.With("surface", string(surface.Name)),
		increment:   randomIncrement,
		now:         time.Now,
		index:       make(map[uuid.UUID]*taskEntry),
		subscribers: make(map[uint64]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomIncrement(limit int) int {
	if limit <= 0 {
		return 0
	}
	return rand.IntN(limit + 1)
}

func (s *session) Surface() domain.Surface {
	return s.surface.Name
}
