package queries

import (
	"blog-backend/pkg/utils"
)

// GetPostQuery represents a query to get a single post
type GetPostQuery struct {
	PostID string `validate:"required,max=128"`
}

// Validate validates the GetPostQuery
func (q GetPostQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListPostsQuery lists every post
type ListPostsQuery struct{}

// Validate validates the ListPostsQuery
func (q ListPostsQuery) Validate() error {
	return nil
}

// ListPostsByOwnerQuery lists the posts owned by Owner
type ListPostsByOwnerQuery struct {
	Owner string `validate:"required"`
}

// Validate validates the ListPostsByOwnerQuery
func (q ListPostsByOwnerQuery) Validate() error {
	return utils.ValidateStruct(q)
}
