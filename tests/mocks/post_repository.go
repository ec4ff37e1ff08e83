package mocks

import (
	"context"

	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a testify mock for ports.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error) {
	args := m.Called(ctx, id, owner, changes)
	return args.Get(0).(valueobjects.PostChanges), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error {
	args := m.Called(ctx, id, owner)
	return args.Error(0)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*entities.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}

func (m *MockPostRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}
