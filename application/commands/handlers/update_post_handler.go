package handlers

import (
	"context"
	"fmt"

	"blog-backend/application/commands"
	"blog-backend/application/commands/bus"
	"blog-backend/application/dto"
	"blog-backend/application/ports"
	"blog-backend/application/services"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// UpdatePostHandler handles post update commands
type UpdatePostHandler struct {
	postRepo ports.PostRepository
	gate     *services.OwnershipGate
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewUpdatePostHandler creates a new update post handler
func NewUpdatePostHandler(
	postRepo ports.PostRepository,
	gate *services.OwnershipGate,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *UpdatePostHandler {
	return &UpdatePostHandler{
		postRepo: postRepo,
		gate:     gate,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *UpdatePostHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.UpdatePostCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}
	view, err := h.Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Execute writes the command's changes when the caller owns the post.
// The result holds the id and the written attributes only.
func (h *UpdatePostHandler) Execute(ctx context.Context, cmd commands.UpdatePostCommand) (*dto.PostView, error) {
	postID, err := valueobjects.NewPostIDFromString(cmd.PostID)
	if err != nil {
		return nil, err
	}

	post, err := h.gate.AuthorizeMutation(ctx, postID, cmd.Caller)
	if err != nil {
		return nil, err
	}

	// Nothing to write; the caller still had to pass the ownership check
	if cmd.Changes.IsEmpty() {
		return dto.NewUpdatedPostView(postID, cmd.Changes), nil
	}

	written, err := h.postRepo.Update(ctx, postID, cmd.Caller, cmd.Changes)
	if err != nil {
		if pkgerrors.IsConflict(err) {
			// Passed the gate but failed the owner condition: removed in between
			return nil, pkgerrors.NewNotFoundError("post").WithCause(err)
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	post.ApplyChanges(written)
	publishEvents(ctx, h.eventBus, post, h.logger)

	h.logger.Info("Post updated",
		zap.String("postID", cmd.PostID),
		zap.String("caller", cmd.Caller),
		zap.Int("attributes", written.Len()),
	)

	return dto.NewUpdatedPostView(postID, written), nil
}
