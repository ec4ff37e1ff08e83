package di

import (
	"context"
	"fmt"

	"blog-backend/application/dispatch"
	"blog-backend/application/ports"
	domainconfig "blog-backend/domain/config"
	"blog-backend/infrastructure/config"
	"blog-backend/infrastructure/messaging/eventbridge"
	"blog-backend/infrastructure/persistence"
	"blog-backend/infrastructure/persistence/badger"
	"blog-backend/infrastructure/persistence/dynamodb"
	"blog-backend/infrastructure/persistence/memory"
	"blog-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
)

const serviceName = "blog-posts"

// ProvideLogger creates a logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideAWSConfig creates AWS configuration. SDK calls are traced when tracing is on.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		// DynamoDB Local
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvidePostRepository creates the post store selected by STORE_BACKEND.
// The returned cleanup closes the store.
func ProvidePostRepository(
	client *awsdynamodb.Client,
	cfg *config.Config,
	logger *zap.Logger,
) (ports.PostRepository, func(), error) {
	var repo ports.PostRepository
	cleanup := func() {}

	switch cfg.StoreBackend {
	case config.StoreDynamoDB:
		repo = dynamodb.NewPostRepository(client, cfg.PostTable, cfg.OwnerIndexName, logger)
	case config.StoreBadger:
		badgerRepo, err := badger.Open(cfg.BadgerPath, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = badgerRepo
		cleanup = func() {
			if err := badgerRepo.Close(); err != nil {
				logger.Error("Failed to close badger store", zap.Error(err))
			}
		}
	case config.StoreMemory:
		repo = memory.NewPostRepository()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	logger.Info("Post store configured", zap.String("backend", cfg.StoreBackend))

	if cfg.EnableCircuitBreaker {
		repo = persistence.NewCircuitBreakerRepository(
			repo,
			persistence.DefaultCircuitBreakerConfig(cfg.StoreBackend),
			logger,
		)
	}
	return repo, cleanup, nil
}

// ProvideHealthChecker exposes the post store's ping. Every store implements it.
func ProvideHealthChecker(repo ports.PostRepository) ports.HealthChecker {
	if hc, ok := repo.(ports.HealthChecker); ok {
		return hc
	}
	return alwaysReady{}
}

type alwaysReady struct{}

func (alwaysReady) Ping(ctx context.Context) error { return nil }

// ProvideEventBus creates an event bus. Without a bus name events are dropped.
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if cfg.EventBusName == "" {
		return eventbridge.NoopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("blog")
}

// ProvideOperationMetrics records operations in Prometheus, and in CloudWatch when enabled
func ProvideOperationMetrics(
	collector *observability.Collector,
	client *awscloudwatch.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.OperationMetrics {
	metrics := observability.MultiMetrics{collector}
	if cfg.EnableMetrics {
		namespace := fmt.Sprintf("Blog/%s", cfg.Environment)
		metrics = append(metrics, observability.NewCloudWatchMetrics(namespace, client, logger))
	}
	return metrics
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer(serviceName)
}

// ProvideDomainConfig selects the post limits for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideRouter creates the operation router
func ProvideRouter(
	repo ports.PostRepository,
	eventBus ports.EventBus,
	metrics ports.OperationMetrics,
	tracer *observability.Tracer,
	limits *domainconfig.DomainConfig,
	cfg *config.Config,
	logger *zap.Logger,
) (*dispatch.Router, error) {
	opts := []dispatch.Option{
		dispatch.WithMetrics(metrics),
		dispatch.WithDomainConfig(limits),
	}
	if cfg.EnableTracing {
		opts = append(opts, dispatch.WithTracer(tracer))
	}
	return dispatch.NewPostRouter(repo, eventBus, logger, opts...)
}
