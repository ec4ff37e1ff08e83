package persistence

import (
	"context"
	"errors"
	"time"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CircuitBreakerConfig holds configuration for the store circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip when at least MinRequests were seen and the failure ratio reaches FailureThreshold
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreakerRepository wraps a PostRepository and stops calling the store
// while it keeps failing. Only DATABASE errors count as failures; not-found,
// conflict and validation outcomes are normal answers from a healthy store.
type CircuitBreakerRepository struct {
	next   ports.PostRepository
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.PostRepository = (*CircuitBreakerRepository)(nil)

// NewCircuitBreakerRepository decorates next with a circuit breaker
func NewCircuitBreakerRepository(next ports.PostRepository, config CircuitBreakerConfig, logger *zap.Logger) *CircuitBreakerRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !pkgerrors.IsDatabase(err)
		},
	})

	return &CircuitBreakerRepository{next: next, cb: cb, logger: logger}
}

// State returns the current breaker state
func (r *CircuitBreakerRepository) State() gobreaker.State {
	return r.cb.State()
}

func (r *CircuitBreakerRepository) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError(r.cb.Name()).WithCause(err)
	}
	return result, err
}

func (r *CircuitBreakerRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.Post), nil
}

func (r *CircuitBreakerRepository) Create(ctx context.Context, post *entities.Post) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.next.Create(ctx, post)
	})
	return err
}

func (r *CircuitBreakerRepository) Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.next.Update(ctx, id, owner, changes)
	})
	if err != nil {
		return valueobjects.PostChanges{}, err
	}
	return result.(valueobjects.PostChanges), nil
}

func (r *CircuitBreakerRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.next.Delete(ctx, id)
	})
	return err
}

func (r *CircuitBreakerRepository) DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.next.DeleteIfOwner(ctx, id, owner)
	})
	return err
}

func (r *CircuitBreakerRepository) List(ctx context.Context) ([]*entities.Post, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*entities.Post), nil
}

func (r *CircuitBreakerRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.next.ListByOwner(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*entities.Post), nil
}

// Ping forwards readiness checks when the wrapped store supports them
func (r *CircuitBreakerRepository) Ping(ctx context.Context) error {
	if r.cb.State() == gobreaker.StateOpen {
		return pkgerrors.NewUnavailableError(r.cb.Name())
	}
	if hc, ok := r.next.(ports.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}
