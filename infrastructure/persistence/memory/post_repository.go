package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	"blog-backend/infrastructure/persistence/records"
	pkgerrors "blog-backend/pkg/errors"
)

// PostRepository keeps posts in process memory. It is safe for concurrent use
// and applies conditional writes atomically under its lock.
type PostRepository struct {
	mu    sync.RWMutex
	items map[string]records.PostRecord
}

var (
	_ ports.PostRepository = (*PostRepository)(nil)
	_ ports.HealthChecker  = (*PostRepository)(nil)
)

// NewPostRepository creates an empty in-memory repository
func NewPostRepository() *PostRepository {
	return &PostRepository{items: make(map[string]records.PostRecord)}
}

func (r *PostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	r.mu.RLock()
	rec, ok := r.items[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, pkgerrors.NewNotFoundError("post")
	}
	return rec.ToEntity()
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	rec := records.FromEntity(post)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[rec.ID]; exists {
		return pkgerrors.NewConflictError(fmt.Sprintf("post %s already exists", rec.ID))
	}
	r.items[rec.ID] = rec
	return nil
}

func (r *PostRepository) Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error) {
	if changes.IsEmpty() {
		return valueobjects.PostChanges{}, pkgerrors.NewValidationError("update requires at least one attribute")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[id.String()]
	if !ok || rec.Owner != owner {
		return valueobjects.PostChanges{}, pkgerrors.NewConflictError("post owner condition failed")
	}

	for _, c := range changes.Changes() {
		switch c.Field {
		case valueobjects.FieldTitle:
			rec.Title = c.Value
		case valueobjects.FieldContent:
			rec.Content = c.Value
		}
	}
	r.items[rec.ID] = rec

	return changes, nil
}

func (r *PostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	r.mu.Lock()
	delete(r.items, id.String())
	r.mu.Unlock()
	return nil
}

func (r *PostRepository) DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.items[id.String()]
	if !ok || rec.Owner != owner {
		return pkgerrors.NewConflictError("post owner condition failed")
	}
	delete(r.items, rec.ID)
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]*entities.Post, error) {
	return r.collect(func(records.PostRecord) bool { return true })
}

func (r *PostRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error) {
	return r.collect(func(rec records.PostRecord) bool { return rec.Owner == owner })
}

func (r *PostRepository) Ping(ctx context.Context) error {
	return nil
}

// collect returns matching posts ordered by id so results are stable
func (r *PostRepository) collect(match func(records.PostRecord) bool) ([]*entities.Post, error) {
	r.mu.RLock()
	matched := make([]records.PostRecord, 0, len(r.items))
	for _, rec := range r.items {
		if match(rec) {
			matched = append(matched, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	posts := make([]*entities.Post, 0, len(matched))
	for _, rec := range matched {
		post, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
