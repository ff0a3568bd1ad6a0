package upload_test

import (
	"accountant-assistant/internal/adapters/scheduler"
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"accountant-assistant/internal/core/service/upload"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testUploadConfig = config.UploadConfig{
	TickInterval:         350 * time.Millisecond,
	ProgressSeed:         10,
	ProgressCap:          90,
	ProgressMaxIncrement: 10,
}

func statementsSurface(t *testing.T) domain.SurfaceInfo {
	t.Helper()
	surface, err := domain.LookupSurface(domain.SurfaceStatements)
	require.NoError(t, err)
	return surface
}

func fixedIncrement(n int) upload.Option {
	return upload.WithIncrement(func(limit int) int { return min(n, limit) })
}

type outcome struct {
	result *domain.UploadResult
	err    error
}

// gatedTransport blocks every upload until the test releases its file by name
type gatedTransport struct {
	mu      sync.Mutex
	gates   map[string]chan outcome
	started chan string
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{
		gates:   make(map[string]chan outcome),
		started: make(chan string, 64),
	}
}

func (g *gatedTransport) gate(name string) chan outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[name]
	if !ok {
		ch = make(chan outcome, 1)
		g.gates[name] = ch
	}
	return ch
}

func (g *gatedTransport) Upload(ctx context.Context, _ domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error) {
	gate := g.gate(file.Name)
	g.started <- file.Name
	select {
	case o := <-gate:
		return o.result, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedTransport) succeed(name string, payload map[string]any) {
	g.gate(name) <- outcome{result: &domain.UploadResult{Payload: payload}}
}

func (g *gatedTransport) fail(name string, err error) {
	g.gate(name) <- outcome{err: err}
}

func (g *gatedTransport) waitStarted(t *testing.T, n int) []string {
	t.Helper()
	names := make([]string, 0, n)
	for len(names) < n {
		select {
		case name := <-g.started:
			names = append(names, name)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d uploads started", len(names), n)
		}
	}
	return names
}

func newSession(t *testing.T, transport port.UploadTransport, notifier port.Notifier, opts ...upload.Option) (port.UploadSessionService, *scheduler.Manual) {
	t.Helper()
	manual := scheduler.NewManual()
	s := upload.NewUploadSession(statementsSurface(t), transport, manual, notifier, testUploadConfig, discardLogger, opts...)
	return s, manual
}

func files(names ...string) []domain.File {
	out := make([]domain.File, 0, len(names))
	for _, name := range names {
		out = append(out, domain.File{Name: name, SizeBytes: 1024, MimeType: "application/pdf", Content: []byte("%PDF")})
	}
	return out
}

func taskStatus(s port.UploadSessionService, index int) domain.TaskStatus {
	tasks := s.Snapshot().Tasks
	if index >= len(tasks) {
		return ""
	}
	return tasks[index].Status
}

func waitTerminal(t *testing.T, s port.UploadSessionService) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.IsBusy() }, 2*time.Second, 5*time.Millisecond)
}

type transportFunc func(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error)

func (f transportFunc) Upload(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error) {
	return f(ctx, surface, file)
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}
