package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	"blog-backend/infrastructure/persistence/records"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	// Key prefixes
	postKeyPrefix  = "post:"
	ownerKeyPrefix = "owner:"

	// Separates owner from post id in index keys
	ownerKeySep = "\x00"

	// Attempts per write transaction when badger reports a conflicting commit
	maxTxnAttempts = 16
)

// PostRepository stores posts in an embedded BadgerDB for local development.
// Each post is kept under post:<id>, and owner:<owner>\x00<id> acts as the owner index.
type PostRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

var (
	_ ports.PostRepository = (*PostRepository)(nil)
	_ ports.HealthChecker  = (*PostRepository)(nil)
)

// Open opens (or creates) a BadgerDB at path
func Open(path string, logger *zap.Logger) (*PostRepository, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return NewPostRepository(db, logger), nil
}

// NewPostRepository wraps an open BadgerDB
func NewPostRepository(db *badger.DB, logger *zap.Logger) *PostRepository {
	return &PostRepository{db: db, logger: logger}
}

// Close closes the underlying database
func (r *PostRepository) Close() error {
	return r.db.Close()
}

// update runs fn in a read-write transaction, rerunning it when a concurrent
// commit touched the keys it read
func (r *PostRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func postKey(id string) []byte {
	return []byte(postKeyPrefix + id)
}

func ownerPrefix(owner string) []byte {
	return []byte(ownerKeyPrefix + owner + ownerKeySep)
}

func ownerKey(owner, id string) []byte {
	return append(ownerPrefix(owner), id...)
}

func getRecord(txn *badger.Txn, id string) (records.PostRecord, error) {
	var rec records.PostRecord
	item, err := txn.Get(postKey(id))
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, err
}

func putRecord(txn *badger.Txn, rec records.PostRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	return txn.Set(postKey(rec.ID), data)
}

func (r *PostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	var rec records.PostRecord
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id.String())
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError("post")
	}
	if err != nil {
		return nil, r.storeError("get", id.String(), err)
	}
	return rec.ToEntity()
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	rec := records.FromEntity(post)
	errExists := pkgerrors.NewConflictError(fmt.Sprintf("post %s already exists", rec.ID))

	err := r.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(rec.ID)); err == nil {
			return errExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := putRecord(txn, rec); err != nil {
			return err
		}
		return txn.Set(ownerKey(rec.Owner, rec.ID), nil)
	})
	if errors.Is(err, errExists) {
		return errExists
	}
	if err != nil {
		return r.storeError("create", rec.ID, err)
	}
	return nil
}

func (r *PostRepository) Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error) {
	if changes.IsEmpty() {
		return valueobjects.PostChanges{}, pkgerrors.NewValidationError("update requires at least one attribute")
	}
	errCondition := pkgerrors.NewConflictError("post owner condition failed")

	err := r.update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id.String())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errCondition
		}
		if err != nil {
			return err
		}
		if rec.Owner != owner {
			return errCondition
		}

		for _, c := range changes.Changes() {
			switch c.Field {
			case valueobjects.FieldTitle:
				rec.Title = c.Value
			case valueobjects.FieldContent:
				rec.Content = c.Value
			}
		}
		return putRecord(txn, rec)
	})
	if errors.Is(err, errCondition) {
		return valueobjects.PostChanges{}, errCondition
	}
	if err != nil {
		return valueobjects.PostChanges{}, r.storeError("update", id.String(), err)
	}
	return changes, nil
}

func (r *PostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	err := r.update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id.String())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return deleteRecord(txn, rec)
	})
	if err != nil {
		return r.storeError("delete", id.String(), err)
	}
	return nil
}

func (r *PostRepository) DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error {
	errCondition := pkgerrors.NewConflictError("post owner condition failed")

	err := r.update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id.String())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errCondition
		}
		if err != nil {
			return err
		}
		if rec.Owner != owner {
			return errCondition
		}
		return deleteRecord(txn, rec)
	})
	if errors.Is(err, errCondition) {
		return errCondition
	}
	if err != nil {
		return r.storeError("delete", id.String(), err)
	}
	return nil
}

func deleteRecord(txn *badger.Txn, rec records.PostRecord) error {
	if err := txn.Delete(postKey(rec.ID)); err != nil {
		return err
	}
	return txn.Delete(ownerKey(rec.Owner, rec.ID))
}

func (r *PostRepository) List(ctx context.Context) ([]*entities.Post, error) {
	posts := []*entities.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec records.PostRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = r.appendEntity(posts, rec)
		}
		return nil
	})
	if err != nil {
		return nil, r.storeError("scan", "", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error) {
	posts := []*entities.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := ownerPrefix(owner)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			rec, err := getRecord(txn, id)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			// an owner containing the separator can share this prefix
			if rec.Owner != owner {
				continue
			}
			posts = r.appendEntity(posts, rec)
		}
		return nil
	})
	if err != nil {
		return nil, r.storeError("query", "", err)
	}
	return posts, nil
}

func (r *PostRepository) Ping(ctx context.Context) error {
	if r.db.IsClosed() {
		return pkgerrors.NewUnavailableError("badger")
	}
	return nil
}

func (r *PostRepository) appendEntity(posts []*entities.Post, rec records.PostRecord) []*entities.Post {
	post, err := rec.ToEntity()
	if err != nil {
		r.logger.Warn("Failed to parse stored post", zap.String("postID", rec.ID), zap.Error(err))
		return posts
	}
	return append(posts, post)
}

func (r *PostRepository) storeError(operation, postID string, err error) error {
	r.logger.Error("Badger operation failed",
		zap.String("operation", operation),
		zap.String("postID", postID),
		zap.Error(err),
	)
	return pkgerrors.NewDatabaseError(operation, err)
}
