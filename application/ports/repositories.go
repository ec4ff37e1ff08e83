package ports

import (
	"context"
	"time"

	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	"blog-backend/domain/events"
)

// PostRepository defines the interface for post persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
// Implementations surface the first store failure as a DATABASE AppError and never retry.
type PostRepository interface {
	// GetByID retrieves a post by its ID; NOT_FOUND when absent
	GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error)

	// Create stores a new post; CONFLICT when the id is already taken
	Create(ctx context.Context, post *entities.Post) error

	// Update sets the given attributes while the stored owner equals owner.
	// It returns only the attributes it wrote, as stored. CONFLICT when the condition fails.
	Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error)

	// Delete removes a post unconditionally; deleting an absent post is not an error
	Delete(ctx context.Context, id valueobjects.PostID) error

	// DeleteIfOwner removes a post only while its stored owner equals owner; CONFLICT otherwise
	DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error

	// List returns every stored post
	List(ctx context.Context) ([]*entities.Post, error)

	// ListByOwner returns every post whose owner equals owner
	ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error)
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	EventPublisher
}

// OperationMetrics records the outcome of each dispatched operation
type OperationMetrics interface {
	RecordOperation(ctx context.Context, operation string, outcome string, duration time.Duration)
}
