package di

import (
	"blog-backend/application/dispatch"
	"blog-backend/application/ports"
	"blog-backend/infrastructure/config"
	"blog-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	PostRepo  ports.PostRepository
	Health    ports.HealthChecker
	EventBus  ports.EventBus
	Collector *observability.Collector
	Router    *dispatch.Router
}
