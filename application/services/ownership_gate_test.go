package services

import (
	"context"
	"errors"
	"testing"

	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"
	"blog-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOwnershipGate_OwnerPasses(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()
	repo.On("GetByID", ctx, post.ID()).Return(post, nil)
	gate := NewOwnershipGate(repo, zap.NewNop())

	// Act
	got, err := gate.AuthorizeMutation(ctx, post.ID(), "alice")

	// Assert
	require.NoError(t, err)
	assert.Same(t, post, got)
	repo.AssertExpectations(t)
}

func TestOwnershipGate_NonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()
	repo.On("GetByID", ctx, post.ID()).Return(post, nil)
	gate := NewOwnershipGate(repo, zap.NewNop())

	_, err := gate.AuthorizeMutation(ctx, post.ID(), "bob")

	assert.True(t, pkgerrors.IsForbidden(err))
}

func TestOwnershipGate_MissingPostIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPostRepository)
	id := valueobjects.NewPostID()
	repo.On("GetByID", ctx, id).Return(nil, pkgerrors.NewNotFoundError("post"))
	gate := NewOwnershipGate(repo, zap.NewNop())

	_, err := gate.AuthorizeMutation(ctx, id, "alice")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestOwnershipGate_StoreFailurePassesThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPostRepository)
	id := valueobjects.NewPostID()
	repo.On("GetByID", ctx, id).Return(nil, pkgerrors.NewDatabaseError("GetItem", errors.New("down")))
	gate := NewOwnershipGate(repo, zap.NewNop())

	_, err := gate.AuthorizeMutation(ctx, id, "alice")

	assert.True(t, pkgerrors.IsDatabase(err))
}

func TestOwnershipGate_AnonymousNeverReadsStore(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPostRepository)
	gate := NewOwnershipGate(repo, zap.NewNop())

	_, err := gate.AuthorizeMutation(ctx, valueobjects.NewPostID(), "")

	assert.True(t, pkgerrors.IsUnauthorized(err))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
