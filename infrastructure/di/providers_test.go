package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blog-backend/infrastructure/config"
	"blog-backend/infrastructure/messaging/eventbridge"
	"blog-backend/infrastructure/persistence"
	"blog-backend/infrastructure/persistence/memory"
	"blog-backend/pkg/auth"
	"blog-backend/pkg/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.StoreBackend = config.StoreMemory
	cfg.EnableCircuitBreaker = false
	return cfg
}

func TestProvidePostRepository_Memory(t *testing.T) {
	repo, cleanup, err := ProvidePostRepository(nil, testConfig(), zap.NewNop())

	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &memory.PostRepository{}, repo)
}

func TestProvidePostRepository_WrapsCircuitBreaker(t *testing.T) {
	cfg := testConfig()
	cfg.EnableCircuitBreaker = true

	repo, cleanup, err := ProvidePostRepository(nil, cfg, zap.NewNop())

	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &persistence.CircuitBreakerRepository{}, repo)
	assert.NoError(t, ProvideHealthChecker(repo).Ping(context.Background()))
}

func TestProvidePostRepository_Badger(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = config.StoreBadger
	cfg.BadgerPath = t.TempDir()

	repo, cleanup, err := ProvidePostRepository(nil, cfg, zap.NewNop())

	require.NoError(t, err)
	assert.NoError(t, ProvideHealthChecker(repo).Ping(context.Background()))
	cleanup()
}

func TestProvidePostRepository_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "cassandra"

	_, _, err := ProvidePostRepository(nil, cfg, zap.NewNop())

	assert.Error(t, err)
}

func TestProvideEventBus_NoBusName(t *testing.T) {
	bus := ProvideEventBus(nil, testConfig(), zap.NewNop())

	assert.IsType(t, eventbridge.NoopPublisher{}, bus)
}

func TestProvideOperationMetrics_PrometheusOnly(t *testing.T) {
	metrics := ProvideOperationMetrics(ProvideCollector(), nil, testConfig(), zap.NewNop())

	mm, ok := metrics.(observability.MultiMetrics)
	require.True(t, ok)
	assert.Len(t, mm, 1)
}

func TestProvideLogger(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "debug"

	logger, err := ProvideLogger(cfg)

	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestProvideRouter(t *testing.T) {
	cfg := testConfig()
	repo, cleanup, err := ProvidePostRepository(nil, cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	router, err := ProvideRouter(repo, eventbridge.NoopPublisher{}, observability.MultiMetrics{}, ProvideTracer(), ProvideDomainConfig(cfg), cfg, zap.NewNop())

	require.NoError(t, err)
	assert.NotNil(t, router)
}

func TestProvideDomainConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"

	assert.Equal(t, 60000, ProvideDomainConfig(cfg).MaxContentLength)

	cfg.Environment = "development"
	assert.Equal(t, 100000, ProvideDomainConfig(cfg).MaxContentLength)
}

func testContainer(t *testing.T) *Container {
	t.Helper()
	cfg := testConfig()
	cfg.JWTSecret = "local-secret"
	repo, cleanup, err := ProvidePostRepository(nil, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	router, err := ProvideRouter(repo, eventbridge.NoopPublisher{}, observability.MultiMetrics{}, ProvideTracer(), ProvideDomainConfig(cfg), cfg, zap.NewNop())
	require.NoError(t, err)
	return &Container{
		Config:    cfg,
		Logger:    zap.NewNop(),
		PostRepo:  repo,
		Health:    ProvideHealthChecker(repo),
		EventBus:  eventbridge.NoopPublisher{},
		Collector: ProvideCollector(),
		Router:    router,
	}
}

func TestNewHTTPHandler_BehindGatewayIgnoresBearerTokens(t *testing.T) {
	handler, err := NewHTTPHandler(testContainer(t), true)
	require.NoError(t, err)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{CognitoUsername: "alice"}).
		SignedString([]byte("local-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"title":"A"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewHTTPHandler_LocalVerifiesBearerTokens(t *testing.T) {
	handler, err := NewHTTPHandler(testContainer(t), false)
	require.NoError(t, err)

	sign := func(key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{CognitoUsername: "alice"}).
			SignedString([]byte(key))
		require.NoError(t, err)
		return "Bearer " + token
	}

	forged := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"title":"A"}`))
	forged.Header.Set("Authorization", sign("attacker-chosen-key"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	valid := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"title":"A"}`))
	valid.Header.Set("Authorization", sign("local-secret"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, valid)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
