package records

import (
	"encoding/json"
	"testing"

	"blog-backend/tests/fixtures"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRecord_EmptyAttributesAreStored(t *testing.T) {
	post := fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").WithTitle("").WithContent("").MustBuild()

	item, err := attributevalue.MarshalMap(FromEntity(post))
	require.NoError(t, err)

	for _, attr := range []string{AttrID, AttrOwner, AttrTitle, AttrContent} {
		assert.Contains(t, item, attr)
	}
	assert.Equal(t, &types.AttributeValueMemberS{Value: ""}, item[AttrTitle])

	raw, err := json.Marshal(FromEntity(post))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","owner":"alice","title":"","content":""}`, string(raw))
}

func TestPostRecord_RoundTrip(t *testing.T) {
	post := fixtures.NewPostBuilder().WithID("p1").WithOwner("alice").WithTitle("T").WithContent("C").MustBuild()

	item, err := attributevalue.MarshalMap(FromEntity(post))
	require.NoError(t, err)

	var rec PostRecord
	require.NoError(t, attributevalue.UnmarshalMap(item, &rec))
	got, err := rec.ToEntity()
	require.NoError(t, err)

	assert.Equal(t, "p1", got.ID().String())
	assert.Equal(t, "alice", got.Owner())
	assert.Equal(t, "T", got.Title())
	assert.Equal(t, "C", got.Content())
}
