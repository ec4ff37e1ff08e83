package main

import (
	"context"
	"log"
	"time"

	"blog-backend/infrastructure/config"
	"blog-backend/infrastructure/di"
	"blog-backend/interfaces/appsync"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var (
	// container holds the dependency injection container
	container *di.Container

	// handler resolves AppSync field invocations
	handler *appsync.Handler
)

// init runs during cold start
func init() {
	coldStartTime := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The store lives for the whole execution environment, so the cleanup is never run
	container, _, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	handler = appsync.NewHandler(container.Router, container.Logger)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.String("store", cfg.StoreBackend),
	)
}

func main() {
	lambda.Start(handler.Handle)
}
