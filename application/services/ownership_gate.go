package services

import (
	"context"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// OwnershipGate decides whether a caller may mutate an existing post.
//
// The check reads the post and compares owners; it is not atomic with the write
// that follows. Writers close the gap with a store-level owner condition, and a
// failed condition after a passing check means the post changed in between.
type OwnershipGate struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewOwnershipGate creates a new ownership gate
func NewOwnershipGate(postRepo ports.PostRepository, logger *zap.Logger) *OwnershipGate {
	return &OwnershipGate{
		postRepo: postRepo,
		logger:   logger,
	}
}

// AuthorizeMutation returns the current post when caller owns it.
// It fails with NOT_FOUND when the post is absent and FORBIDDEN when it belongs to someone else.
func (g *OwnershipGate) AuthorizeMutation(ctx context.Context, id valueobjects.PostID, caller string) (*entities.Post, error) {
	if caller == "" {
		return nil, pkgerrors.NewUnauthorizedError("caller identity is required")
	}

	post, err := g.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsOwnedBy(caller) {
		g.logger.Warn("Mutation rejected: caller does not own post",
			zap.String("postID", id.String()),
			zap.String("caller", caller),
		)
		return nil, pkgerrors.NewForbiddenError("caller is not authorized to mutate this post")
	}

	return post, nil
}
