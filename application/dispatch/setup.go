package dispatch

import (
	"fmt"

	"blog-backend/application/commands"
	cbus "blog-backend/application/commands/bus"
	chandlers "blog-backend/application/commands/handlers"
	"blog-backend/application/ports"
	"blog-backend/application/queries"
	qbus "blog-backend/application/queries/bus"
	qhandlers "blog-backend/application/queries/handlers"
	"blog-backend/application/services"

	"go.uber.org/zap"
)

// NewPostCommandBus registers the post command handlers
func NewPostCommandBus(postRepo ports.PostRepository, eventBus ports.EventBus, logger *zap.Logger) (*cbus.CommandBus, error) {
	gate := services.NewOwnershipGate(postRepo, logger)
	commandBus := cbus.NewCommandBus(cbus.LoggingMiddleware(logger))

	registrations := []struct {
		cmd     cbus.Command
		handler cbus.CommandHandler
	}{
		{commands.CreatePostCommand{}, chandlers.NewCreatePostHandler(postRepo, eventBus, logger)},
		{commands.UpdatePostCommand{}, chandlers.NewUpdatePostHandler(postRepo, gate, eventBus, logger)},
		{commands.DeletePostCommand{}, chandlers.NewDeletePostHandler(postRepo, gate, eventBus, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, fmt.Errorf("failed to register command handler: %w", err)
		}
	}

	return commandBus, nil
}

// NewPostQueryBus registers the post query handlers
func NewPostQueryBus(postRepo ports.PostRepository, logger *zap.Logger) (*qbus.QueryBus, error) {
	queryBus := qbus.NewQueryBus(logger)

	registrations := []struct {
		query   qbus.Query
		handler qbus.QueryHandler
	}{
		{queries.GetPostQuery{}, qhandlers.NewGetPostHandler(postRepo, logger)},
		{queries.ListPostsQuery{}, qhandlers.NewListPostsHandler(postRepo, logger)},
		{queries.ListPostsByOwnerQuery{}, qhandlers.NewListPostsByOwnerHandler(postRepo, logger)},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, fmt.Errorf("failed to register query handler: %w", err)
		}
	}

	return queryBus, nil
}

// NewPostRouter builds a router with every post operation registered
func NewPostRouter(postRepo ports.PostRepository, eventBus ports.EventBus, logger *zap.Logger, opts ...Option) (*Router, error) {
	commandBus, err := NewPostCommandBus(postRepo, eventBus, logger)
	if err != nil {
		return nil, err
	}
	queryBus, err := NewPostQueryBus(postRepo, logger)
	if err != nil {
		return nil, err
	}
	return NewRouter(commandBus, queryBus, logger, opts...), nil
}
