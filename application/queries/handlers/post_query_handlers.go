package handlers

import (
	"context"
	"fmt"

	"blog-backend/application/dto"
	"blog-backend/application/ports"
	"blog-backend/application/queries"
	"blog-backend/application/queries/bus"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetPostHandler answers GetPostQuery. An absent post yields a nil view, not an error.
type GetPostHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewGetPostHandler creates a new get post handler
func NewGetPostHandler(postRepo ports.PostRepository, logger *zap.Logger) *GetPostHandler {
	return &GetPostHandler{postRepo: postRepo, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *GetPostHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetPostQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	postID, err := valueobjects.NewPostIDFromString(q.PostID)
	if err != nil {
		return nil, err
	}

	post, err := h.postRepo.GetByID(ctx, postID)
	if pkgerrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return dto.NewPostView(post), nil
}

// ListPostsHandler answers ListPostsQuery
type ListPostsHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewListPostsHandler creates a new list posts handler
func NewListPostsHandler(postRepo ports.PostRepository, logger *zap.Logger) *ListPostsHandler {
	return &ListPostsHandler{postRepo: postRepo, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListPostsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	posts, err := h.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	h.logger.Debug("Posts listed", zap.Int("count", len(posts)))
	return dto.NewPostViews(posts), nil
}

// ListPostsByOwnerHandler answers ListPostsByOwnerQuery
type ListPostsByOwnerHandler struct {
	postRepo ports.PostRepository
	logger   *zap.Logger
}

// NewListPostsByOwnerHandler creates a new list posts by owner handler
func NewListPostsByOwnerHandler(postRepo ports.PostRepository, logger *zap.Logger) *ListPostsByOwnerHandler {
	return &ListPostsByOwnerHandler{postRepo: postRepo, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *ListPostsByOwnerHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListPostsByOwnerQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	posts, err := h.postRepo.ListByOwner(ctx, q.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by owner: %w", err)
	}

	h.logger.Debug("Posts listed by owner",
		zap.String("owner", q.Owner),
		zap.Int("count", len(posts)),
	)
	return dto.NewPostViews(posts), nil
}
