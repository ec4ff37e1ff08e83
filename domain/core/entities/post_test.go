package entities_test

import (
	"testing"

	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	"blog-backend/domain/events"
	pkgerrors "blog-backend/pkg/errors"
	"blog-backend/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_StampsOwnerAndRaisesCreated(t *testing.T) {
	post, err := entities.NewPost("p1", "alice", fixtures.Changes("title", "Hello", "content", "Body"))

	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID().String())
	assert.Equal(t, "alice", post.Owner())
	assert.Equal(t, "Hello", post.Title())
	assert.Equal(t, "Body", post.Content())

	evts := post.GetUncommittedEvents()
	require.Len(t, evts, 1)
	created, ok := evts[0].(events.PostCreated)
	require.True(t, ok)
	assert.Equal(t, events.TypePostCreated, created.GetEventType())
	assert.Equal(t, "alice", created.Owner)
}

func TestNewPost_GeneratesID(t *testing.T) {
	a, err := entities.NewPost("", "alice", valueobjects.PostChanges{})
	require.NoError(t, err)
	b, err := entities.NewPost("", "alice", valueobjects.PostChanges{})
	require.NoError(t, err)

	assert.False(t, a.ID().IsZero())
	assert.False(t, a.ID().Equals(b.ID()))
}

func TestNewPost_RequiresOwner(t *testing.T) {
	_, err := entities.NewPost("p1", "", valueobjects.PostChanges{})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPost_IsOwnedBy(t *testing.T) {
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()

	assert.True(t, post.IsOwnedBy("alice"))
	assert.False(t, post.IsOwnedBy("bob"))
	assert.False(t, post.IsOwnedBy(""))
}

func TestPost_ApplyChanges_LeavesOtherFields(t *testing.T) {
	post := fixtures.NewPostBuilder().WithTitle("Old").WithContent("Keep").MustBuild()

	post.ApplyChanges(fixtures.Changes("title", "New"))

	assert.Equal(t, "New", post.Title())
	assert.Equal(t, "Keep", post.Content())
	require.Len(t, post.GetUncommittedEvents(), 1)
	updated := post.GetUncommittedEvents()[0].(events.PostUpdated)
	assert.Equal(t, map[string]string{"title": "New"}, updated.Changed)
}

func TestPost_ApplyEmptyChangesRaisesNothing(t *testing.T) {
	post := fixtures.NewPostBuilder().MustBuild()

	post.ApplyChanges(valueobjects.PostChanges{})

	assert.Empty(t, post.GetUncommittedEvents())
}

func TestPost_MarkDeletedAndCommit(t *testing.T) {
	post := fixtures.NewPostBuilder().WithOwner("alice").MustBuild()

	post.MarkDeleted()
	require.Len(t, post.GetUncommittedEvents(), 1)
	assert.Equal(t, events.TypePostDeleted, post.GetUncommittedEvents()[0].GetEventType())

	post.MarkEventsAsCommitted()
	assert.Empty(t, post.GetUncommittedEvents())
}

func TestReconstructPost_Validates(t *testing.T) {
	_, err := entities.ReconstructPost(valueobjects.PostID{}, "alice", "", "")
	assert.Error(t, err)

	id := valueobjects.NewPostID()
	_, err = entities.ReconstructPost(id, "", "", "")
	assert.Error(t, err)
}
