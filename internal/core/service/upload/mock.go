package upload

import (
	"accountant-assistant/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadSessionService is a mock implementation of UploadSessionService
type MockUploadSessionService struct {
	mock.Mock
	surface domain.Surface
}

// NewMockUploadSessionService creates a new MockUploadSessionService
func NewMockUploadSessionService(surface domain.Surface) *MockUploadSessionService {
	return &MockUploadSessionService{surface: surface}
}

func (m *MockUploadSessionService) Surface() domain.Surface {
	return m.surface
}

func (m *MockUploadSessionService) AddFiles(ctx context.Context, files []domain.File) []uuid.UUID {
	args := m.Called(ctx, files)
	return args.Get(0).([]uuid.UUID)
}

func (m *MockUploadSessionService) Clear() {
	m.Called()
}

func (m *MockUploadSessionService) IsBusy() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockUploadSessionService) Snapshot() domain.Snapshot {
	args := m.Called()
	return args.Get(0).(domain.Snapshot)
}

func (m *MockUploadSessionService) Subscribe(fn func(domain.Snapshot)) func() {
	args := m.Called(fn)
	return args.Get(0).(func())
}
