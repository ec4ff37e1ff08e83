package handlers

import (
	"context"
	"fmt"

	"blog-backend/application/commands"
	"blog-backend/application/commands/bus"
	"blog-backend/application/dto"
	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"

	"go.uber.org/zap"
)

// CreatePostHandler handles post creation commands
type CreatePostHandler struct {
	postRepo ports.PostRepository
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewCreatePostHandler creates a new create post handler
func NewCreatePostHandler(postRepo ports.PostRepository, eventBus ports.EventBus, logger *zap.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		postRepo: postRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle implements bus.CommandHandler
func (h *CreatePostHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.CreatePostCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}
	view, err := h.Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Execute stores a new post owned by the command's owner
func (h *CreatePostHandler) Execute(ctx context.Context, cmd commands.CreatePostCommand) (*dto.PostView, error) {
	post, err := entities.NewPost(cmd.PostID, cmd.Owner, cmd.Changes)
	if err != nil {
		return nil, err
	}

	if err := h.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	publishEvents(ctx, h.eventBus, post, h.logger)

	h.logger.Info("Post created",
		zap.String("postID", post.ID().String()),
		zap.String("owner", post.Owner()),
	)

	return dto.NewPostView(post), nil
}
