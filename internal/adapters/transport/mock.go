package transport

import (
	"accountant-assistant/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) Upload(ctx context.Context, surface domain.SurfaceInfo, file domain.File) (*domain.UploadResult, error) {
	args := m.Called(ctx, surface, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}
