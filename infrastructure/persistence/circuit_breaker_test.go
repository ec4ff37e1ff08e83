package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"
	"blog-backend/tests/mocks"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

func TestCircuitBreakerRepository_PassesThrough(t *testing.T) {
	// Arrange
	ctx := context.Background()
	next := new(mocks.MockPostRepository)
	post := fixtures.NewPostBuilder().MustBuild()
	next.On("GetByID", ctx, post.ID()).Return(post, nil)
	repo := NewCircuitBreakerRepository(next, testBreakerConfig(), zap.NewNop())

	// Act
	got, err := repo.GetByID(ctx, post.ID())

	// Assert
	require.NoError(t, err)
	assert.Same(t, post, got)
	next.AssertExpectations(t)
}

func TestCircuitBreakerRepository_OpensOnDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	next := new(mocks.MockPostRepository)
	next.On("List", ctx).Return(nil, pkgerrors.NewDatabaseError("Scan", errors.New("down")))
	repo := NewCircuitBreakerRepository(next, testBreakerConfig(), zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := repo.List(ctx)
		assert.True(t, pkgerrors.IsDatabase(err))
	}

	_, err := repo.List(ctx)

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, gobreaker.StateOpen, repo.State())
	assert.Error(t, repo.Ping(ctx))
	next.AssertNumberOfCalls(t, "List", 3)
}

func TestCircuitBreakerRepository_DomainOutcomesDoNotTrip(t *testing.T) {
	ctx := context.Background()
	next := new(mocks.MockPostRepository)
	id := valueobjects.NewPostID()
	next.On("GetByID", ctx, id).Return(nil, pkgerrors.NewNotFoundError("post"))
	next.On("DeleteIfOwner", ctx, id, "bob").Return(pkgerrors.NewConflictError("owner condition failed"))
	repo := NewCircuitBreakerRepository(next, testBreakerConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := repo.GetByID(ctx, id)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.True(t, pkgerrors.IsConflict(repo.DeleteIfOwner(ctx, id, "bob")))
	}

	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestCircuitBreakerRepository_Update(t *testing.T) {
	ctx := context.Background()
	next := new(mocks.MockPostRepository)
	id := valueobjects.NewPostID()
	changes := fixtures.Changes("title", "New")
	next.On("Update", ctx, id, "alice", changes).Return(changes, nil)
	next.On("Update", ctx, id, "bob", mock.Anything).Return(valueobjects.PostChanges{}, pkgerrors.NewConflictError("owner condition failed"))
	repo := NewCircuitBreakerRepository(next, testBreakerConfig(), zap.NewNop())

	stored, err := repo.Update(ctx, id, "alice", changes)
	require.NoError(t, err)
	assert.Equal(t, changes, stored)

	_, err = repo.Update(ctx, id, "bob", changes)
	assert.True(t, pkgerrors.IsConflict(err))
}
