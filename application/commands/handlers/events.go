package handlers

import (
	"context"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"

	"go.uber.org/zap"
)

// publishEvents sends the post's pending events. A failed publish is logged
// and does not fail the command, since the write has already happened.
func publishEvents(ctx context.Context, eventBus ports.EventBus, post *entities.Post, logger *zap.Logger) {
	pending := post.GetUncommittedEvents()
	if len(pending) == 0 || eventBus == nil {
		return
	}

	if err := eventBus.PublishBatch(ctx, pending); err != nil {
		logger.Warn("Failed to publish events",
			zap.String("postID", post.ID().String()),
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
		return
	}

	post.MarkEventsAsCommitted()
}
