package handlers

import (
	"context"
	"fmt"

	"blog-backend/application/commands"
	"blog-backend/application/commands/bus"
	"blog-backend/application/ports"
	"blog-backend/application/services"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// DeletePostHandler handles post deletion commands
type DeletePostHandler struct {
	postRepo ports.PostRepository
	gate     *services.OwnershipGate
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewDeletePostHandler creates a new delete post handler
func NewDeletePostHandler(
	postRepo ports.PostRepository,
	gate *services.OwnershipGate,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *DeletePostHandler {
	return &DeletePostHandler{
		postRepo: postRepo,
		gate:     gate,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *DeletePostHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.DeletePostCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}
	id, err := h.Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Execute removes the post when the caller owns it and returns the deleted id
func (h *DeletePostHandler) Execute(ctx context.Context, cmd commands.DeletePostCommand) (string, error) {
	postID, err := valueobjects.NewPostIDFromString(cmd.PostID)
	if err != nil {
		return "", err
	}

	post, err := h.gate.AuthorizeMutation(ctx, postID, cmd.Caller)
	if err != nil {
		return "", err
	}

	if err := h.postRepo.DeleteIfOwner(ctx, postID, cmd.Caller); err != nil {
		if pkgerrors.IsConflict(err) {
			return "", pkgerrors.NewNotFoundError("post").WithCause(err)
		}
		return "", fmt.Errorf("failed to delete post: %w", err)
	}

	post.MarkDeleted()
	publishEvents(ctx, h.eventBus, post, h.logger)

	h.logger.Info("Post deleted",
		zap.String("postID", cmd.PostID),
		zap.String("caller", cmd.Caller),
	)

	return postID.String(), nil
}
