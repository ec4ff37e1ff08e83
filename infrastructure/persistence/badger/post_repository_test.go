package badger

import (
	"context"
	"testing"

	"blog-backend/application/ports"
	"blog-backend/infrastructure/persistence/persistencetest"
	"blog-backend/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestRepo(t *testing.T) *PostRepository {
	repo, err := Open("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestPostRepository_Contract(t *testing.T) {
	persistencetest.RunPostRepositoryContract(t, func(t *testing.T) ports.PostRepository {
		return openTestRepo(t)
	})
}

func TestPostRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	post := fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").WithTitle("Durable").MustBuild()
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Close())

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByID(ctx, post.ID())
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Title())

	mine, err := reopened.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPostRepository_PingAfterClose(t *testing.T) {
	repo, err := Open("", zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.Close())
	assert.Error(t, repo.Ping(context.Background()))
}

func TestPostRepository_ListByOwner_SeparatorInOwner(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	// bob's post id matches the tail of the other owner's index key
	bobs := fixtures.NewPostBuilder().WithID("bob\x00z").WithOwner("bob").MustBuild()
	other := fixtures.NewPostBuilder().WithID("z").WithOwner("alice\x00bob").MustBuild()
	require.NoError(t, repo.Create(ctx, bobs))
	require.NoError(t, repo.Create(ctx, other))

	alices, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alices)

	theirs, err := repo.ListByOwner(ctx, "alice\x00bob")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "z", theirs[0].ID().String())
}
