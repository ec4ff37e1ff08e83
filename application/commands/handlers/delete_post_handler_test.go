package handlers

import (
	"context"
	"errors"
	"testing"

	"blog-backend/application/commands"
	"blog-backend/application/services"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"
	"blog-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeleteHandler(repo *mocks.MockPostRepository, bus *mocks.MockEventBus) *DeletePostHandler {
	logger := zap.NewNop()
	return NewDeletePostHandler(repo, services.NewOwnershipGate(repo, logger), bus, logger)
}

func TestDeletePostHandler_Execute_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockEventBus := new(mocks.MockEventBus)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockPostRepo.On("DeleteIfOwner", ctx, post.ID(), "alice").Return(nil)
	mockEventBus.On("PublishBatch", ctx, mock.AnythingOfType("[]events.DomainEvent")).Return(nil)

	handler := newDeleteHandler(mockPostRepo, mockEventBus)

	// Act
	id, err := handler.Execute(ctx, commands.DeletePostCommand{PostID: post.ID().String(), Caller: "alice"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, post.ID().String(), id)
	mockPostRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestDeletePostHandler_Execute_NonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()
	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)

	handler := newDeleteHandler(mockPostRepo, new(mocks.MockEventBus))

	_, err := handler.Execute(ctx, commands.DeletePostCommand{PostID: post.ID().String(), Caller: "bob"})

	assert.True(t, pkgerrors.IsForbidden(err))
	mockPostRepo.AssertNotCalled(t, "DeleteIfOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePostHandler_Execute_ConditionFailureIsNotFound(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()
	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockPostRepo.On("DeleteIfOwner", ctx, post.ID(), "alice").Return(pkgerrors.NewConflictError("post owner condition failed"))

	handler := newDeleteHandler(mockPostRepo, new(mocks.MockEventBus))

	_, err := handler.Execute(ctx, commands.DeletePostCommand{PostID: post.ID().String(), Caller: "alice"})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDeletePostHandler_Execute_StoreFailureIsDatabase(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()
	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockPostRepo.On("DeleteIfOwner", ctx, post.ID(), "alice").
		Return(pkgerrors.NewDatabaseError("DeleteItem", errors.New("down")))

	handler := newDeleteHandler(mockPostRepo, new(mocks.MockEventBus))

	_, err := handler.Execute(ctx, commands.DeletePostCommand{PostID: post.ID().String(), Caller: "alice"})

	assert.True(t, pkgerrors.IsDatabase(err))
}
