package handlers

import (
	"context"
	"errors"
	"testing"

	"blog-backend/application/commands"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"
	"blog-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreatePostHandler_Execute_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockEventBus := new(mocks.MockEventBus)
	logger := zap.NewNop()

	cmd := commands.CreatePostCommand{
		PostID:  "p1",
		Owner:   "alice",
		Changes: fixtures.Changes("title", "Hello", "content", "Body"),
	}

	mockPostRepo.On("Create", ctx, mock.AnythingOfType("*entities.Post")).Return(nil)
	mockEventBus.On("PublishBatch", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(nil)

	handler := NewCreatePostHandler(mockPostRepo, mockEventBus, logger)

	// Act
	view, err := handler.Execute(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "p1", view.ID)
	assert.Equal(t, "alice", *view.Owner)
	assert.Equal(t, "Hello", *view.Title)
	assert.Equal(t, "Body", *view.Content)
	mockPostRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestCreatePostHandler_Execute_GeneratesID(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockPostRepo.On("Create", ctx, mock.AnythingOfType("*entities.Post")).Return(nil)

	handler := NewCreatePostHandler(mockPostRepo, nil, zap.NewNop())

	view, err := handler.Execute(ctx, commands.CreatePostCommand{Owner: "alice"})

	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
}

func TestCreatePostHandler_Execute_ConflictSurvivesWrapping(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockPostRepo.On("Create", ctx, mock.Anything).Return(pkgerrors.NewConflictError("post p1 already exists"))

	handler := NewCreatePostHandler(mockPostRepo, nil, zap.NewNop())

	_, err := handler.Execute(ctx, commands.CreatePostCommand{PostID: "p1", Owner: "alice"})

	assert.True(t, pkgerrors.IsConflict(err))
}

func TestCreatePostHandler_Execute_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockEventBus := new(mocks.MockEventBus)
	mockPostRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockEventBus.On("PublishBatch", ctx, mock.Anything).Return(errors.New("bus down"))

	handler := NewCreatePostHandler(mockPostRepo, mockEventBus, zap.NewNop())

	view, err := handler.Execute(ctx, commands.CreatePostCommand{PostID: "p1", Owner: "alice"})

	require.NoError(t, err)
	assert.Equal(t, "p1", view.ID)
}

func TestCreatePostHandler_Handle_RejectsOtherCommands(t *testing.T) {
	handler := NewCreatePostHandler(new(mocks.MockPostRepository), nil, zap.NewNop())

	_, err := handler.Handle(context.Background(), commands.DeletePostCommand{PostID: "p1", Caller: "alice"})

	assert.Error(t, err)
}
