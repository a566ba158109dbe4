package mocks

import (
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/wellnessmate/backend/internal/service"
)

// MockEmbeddingService is a mock implementation of the embedding service
type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	args := m.Called(text)
	return args.Get(0).(pgvector.Vector), args.Error(1)
}

var _ service.EmbeddingServiceInterface = (*MockEmbeddingService)(nil)
