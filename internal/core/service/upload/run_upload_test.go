package upload_test

import (
	"accountant-assistant/internal/adapters/notifier"
	"accountant-assistant/internal/adapters/transport"
	"accountant-assistant/internal/core/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunUpload_Outcomes(t *testing.T) {

	t.Run("every file of a batch completes", func(t *testing.T) {
		// Arrange
		mockTransport := transport.NewMockTransport()
		mockTransport.On("Upload", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.UploadResult{Payload: map[string]any{"ok": true}}, nil)
		rec := &recordingNotifier{}
		s, _ := newSession(t, mockTransport, rec)

		// Act
		s.AddFiles(context.Background(), files("a.csv", "b.csv"))

		// Assert
		waitTerminal(t, s)
		tasks := s.Snapshot().Tasks
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, domain.TaskStatusDone, task.Status)
			assert.Equal(t, 100, task.Progress)
			require.NotNil(t, task.Result)
			assert.Equal(t, true, task.Result.Payload["ok"])
		}
		mockTransport.AssertNumberOfCalls(t, "Upload", 2)
		require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)
		for _, n := range rec.all() {
			assert.Equal(t, domain.NotificationLevelSuccess, n.Level)
			assert.Equal(t, domain.SurfaceStatements, n.Surface)
		}
	})

	t.Run("one failure does not affect its siblings", func(t *testing.T) {
		// Arrange
		gated := newGatedTransport()
		rec := &recordingNotifier{}
		s, _ := newSession(t, gated, rec, fixedIncrement(5))

		// Act
		s.AddFiles(context.Background(), files("good.pdf", "bad.pdf"))
		gated.waitStarted(t, 2)
		gated.fail("bad.pdf", domain.NewUploadFailure("network error", errors.New("dial tcp: connection refused")))
		require.Eventually(t, func() bool { return taskStatus(s, 1) == domain.TaskStatusError }, 2*time.Second, 5*time.Millisecond)

		// Assert
		assert.True(t, s.IsBusy())
		assert.Equal(t, domain.TaskStatusUploading, taskStatus(s, 0))

		gated.succeed("good.pdf", map[string]any{"uploadId": "upl_1"})
		waitTerminal(t, s)

		tasks := s.Snapshot().Tasks
		assert.Equal(t, domain.TaskStatusDone, tasks[0].Status)
		assert.Equal(t, 100, tasks[0].Progress)
		assert.Equal(t, "upl_1", tasks[0].Result.Payload["uploadId"])
		assert.Equal(t, domain.TaskStatusError, tasks[1].Status)
		assert.Equal(t, 0, tasks[1].Progress)
		assert.Equal(t, "network error", tasks[1].ErrorMessage)
		assert.Nil(t, tasks[1].Result)
		assert.False(t, s.IsBusy())

		require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)
		notifications := rec.all()
		assert.Equal(t, domain.NotificationLevelError, notifications[0].Level)
		assert.Equal(t, "Bank Statements: network error", notifications[0].Message)
		assert.Equal(t, domain.NotificationLevelSuccess, notifications[1].Level)
		assert.Equal(t, `Bank Statements: uploaded "good.pdf"`, notifications[1].Message)
	})

	t.Run("mock results are flagged in the notification", func(t *testing.T) {
		// Arrange
		notified := make(chan struct{})
		mockNotifier := notifier.NewMockNotifier()
		mockNotifier.On("Notify", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
			return n.Mock && n.Message == `Bank Statements: uploaded "a.csv" (mock)` && n.FileName == "a.csv"
		})).Return(nil).Run(func(mock.Arguments) { close(notified) }).Once()
		mockTransport := transport.NewMockTransport()
		mockTransport.On("Upload", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.UploadResult{Payload: map[string]any{"mock": true}, Mock: true}, nil)
		s, _ := newSession(t, mockTransport, mockNotifier)

		// Act
		s.AddFiles(context.Background(), files("a.csv"))

		// Assert
		waitTerminal(t, s)
		assert.True(t, s.Snapshot().Tasks[0].Result.Mock)
		select {
		case <-notified:
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
		mockNotifier.AssertExpectations(t)
	})

	t.Run("notifier errors do not change the task", func(t *testing.T) {
		// Arrange
		mockNotifier := notifier.NewMockNotifier()
		mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		mockTransport := transport.NewMockTransport()
		mockTransport.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		s, _ := newSession(t, mockTransport, mockNotifier)

		// Act
		s.AddFiles(context.Background(), files("a.csv"))

		// Assert
		waitTerminal(t, s)
		task := s.Snapshot().Tasks[0]
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		require.NotNil(t, task.Result)
		assert.NotNil(t, task.Result.Payload)
		assert.Empty(t, task.Result.Payload)
	})
}

func TestRunUpload_FailureMessages(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "upload failure message", err: domain.NewUploadFailure("Request failed (500 Internal Server Error)", nil), expected: "Request failed (500 Internal Server Error)"},
		{name: "wrapped upload failure", err: errors.Join(errors.New("ctx"), domain.NewUploadFailure("quota exceeded", nil)), expected: "quota exceeded"},
		{name: "plain error", err: errors.New("boom"), expected: "boom"},
		{name: "empty error", err: errors.New(""), expected: "Upload failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			s, _ := newSession(t, transportFunc(func(context.Context, domain.SurfaceInfo, domain.File) (*domain.UploadResult, error) {
				return nil, tc.err
			}), nil)

			// Act
			s.AddFiles(context.Background(), files("a.csv"))

			// Assert
			waitTerminal(t, s)
			task := s.Snapshot().Tasks[0]
			assert.Equal(t, domain.TaskStatusError, task.Status)
			assert.Equal(t, 0, task.Progress)
			assert.Equal(t, tc.expected, task.ErrorMessage)
		})
	}
}

func TestRunUpload_TransportPanic(t *testing.T) {
	// Arrange
	s, manual := newSession(t, transportFunc(func(context.Context, domain.SurfaceInfo, domain.File) (*domain.UploadResult, error) {
		panic("nil map")
	}), nil)

	// Act
	s.AddFiles(context.Background(), files("a.csv"))

	// Assert
	waitTerminal(t, s)
	task := s.Snapshot().Tasks[0]
	assert.Equal(t, domain.TaskStatusError, task.Status)
	assert.Equal(t, "Upload failed", task.ErrorMessage)
	assert.Zero(t, manual.Pending())
}
