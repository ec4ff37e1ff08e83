// Package persistencetest holds the behaviour every PostRepository must share.
package persistencetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPostRepositoryContract runs the shared suite against fresh repositories from newRepo
func RunPostRepositoryContract(t *testing.T, newRepo func(t *testing.T) ports.PostRepository) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		repo := newRepo(t)
		post := fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").WithTitle("Hello").MustBuild()

		require.NoError(t, repo.Create(ctx, post))

		got, err := repo.GetByID(ctx, post.ID())
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner())
		assert.Equal(t, "Hello", got.Title())
		assert.Equal(t, "Test content", got.Content())
	})

	t.Run("get missing is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(ctx, id(t, "missing"))

		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("create existing id is conflict", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").MustBuild()))

		err := repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("bob").MustBuild())

		assert.True(t, pkgerrors.IsConflict(err))
		got, _ := repo.GetByID(ctx, id(t, "p1"))
		assert.Equal(t, "alice", got.Owner())
	})

	t.Run("update by owner writes only named attributes", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").
			WithTitle("Old").WithContent("Keep").MustBuild()))

		stored, err := repo.Update(ctx, id(t, "p1"), "alice", fixtures.Changes("title", "New"))

		require.NoError(t, err)
		assert.Equal(t, []valueobjects.FieldChange{{Field: valueobjects.FieldTitle, Value: "New"}}, stored.Changes())
		got, _ := repo.GetByID(ctx, id(t, "p1"))
		assert.Equal(t, "New", got.Title())
		assert.Equal(t, "Keep", got.Content())
		assert.Equal(t, "alice", got.Owner())
	})

	t.Run("update by non-owner is conflict and leaves post", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").WithTitle("Old").MustBuild()))

		_, err := repo.Update(ctx, id(t, "p1"), "bob", fixtures.Changes("title", "Hijacked"))

		assert.True(t, pkgerrors.IsConflict(err))
		got, _ := repo.GetByID(ctx, id(t, "p1"))
		assert.Equal(t, "Old", got.Title())
	})

	t.Run("update missing is conflict", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(ctx, id(t, "missing"), "alice", fixtures.Changes("title", "x"))

		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("delete if owner", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").MustBuild()))

		assert.True(t, pkgerrors.IsConflict(repo.DeleteIfOwner(ctx, id(t, "p1"), "bob")))
		require.NoError(t, repo.DeleteIfOwner(ctx, id(t, "p1"), "alice"))

		_, err := repo.GetByID(ctx, id(t, "p1"))
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.True(t, pkgerrors.IsConflict(repo.DeleteIfOwner(ctx, id(t, "p1"), "alice")))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").MustBuild()))

		assert.NoError(t, repo.Delete(ctx, id(t, "p1")))
		assert.NoError(t, repo.Delete(ctx, id(t, "p1")))
	})

	t.Run("list and list by owner", func(t *testing.T) {
		repo := newRepo(t)
		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)

		for _, p := range []struct{ id, owner string }{
			{"p3", "alice"}, {"p1", "alice"}, {"p2", "bob"}, {"p4", "alicia"},
		} {
			require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID(p.id).WithOwner(p.owner).MustBuild()))
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(all))

		mine, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3"}, ids(mine))

		none, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("deleted posts leave the owner listing", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").MustBuild()))
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p2").WithOwner("alice").MustBuild()))

		require.NoError(t, repo.DeleteIfOwner(ctx, id(t, "p1"), "alice"))

		mine, err := repo.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"p2"}, ids(mine))
	})

	t.Run("concurrent creates keep unique ids", func(t *testing.T) {
		repo := newRepo(t)
		const n = 50

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				post, err := entities.NewPost("", fmt.Sprintf("user-%d", i%5), fixtures.Changes("title", "t"))
				if err != nil {
					errs <- err
					return
				}
				errs <- repo.Create(ctx, post)
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, n)
	})

	t.Run("concurrent conditional deletes succeed once", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").MustBuild()))

		const n = 10
		var wg sync.WaitGroup
		results := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- repo.DeleteIfOwner(ctx, id(t, "p1"), "alice")
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.True(t, pkgerrors.IsConflict(err), "unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func id(t *testing.T, s string) valueobjects.PostID {
	pid, err := valueobjects.NewPostIDFromString(s)
	require.NoError(t, err)
	return pid
}

func ids(posts []*entities.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID().String())
	}
	return out
}
