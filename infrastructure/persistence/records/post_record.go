package records

import (
	"fmt"

	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
)

// Attribute names of a stored post
const (
	AttrID      = "id"
	AttrOwner   = "owner"
	AttrTitle   = "title"
	AttrContent = "content"
)

// PostRecord is the stored representation of a post.
// Every attribute is always written, empty strings included, so that created
// and updated items have the same shape.
type PostRecord struct {
	ID      string `json:"id" dynamodbav:"id"`
	Owner   string `json:"owner" dynamodbav:"owner"`
	Title   string `json:"title" dynamodbav:"title"`
	Content string `json:"content" dynamodbav:"content"`
}

// FromEntity converts a post into its stored form
func FromEntity(post *entities.Post) PostRecord {
	return PostRecord{
		ID:      post.ID().String(),
		Owner:   post.Owner(),
		Title:   post.Title(),
		Content: post.Content(),
	}
}

// ToEntity rebuilds the post held by the record
func (r PostRecord) ToEntity() (*entities.Post, error) {
	id, err := valueobjects.NewPostIDFromString(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored post id: %w", err)
	}
	return entities.ReconstructPost(id, r.Owner, r.Title, r.Content)
}
