package commands

import (
	"blog-backend/domain/core/valueobjects"
	"blog-backend/pkg/utils"
)

// CreatePostCommand stores a new post owned by Owner.
// PostID may be empty, in which case one is generated.
type CreatePostCommand struct {
	PostID  string                   `json:"post_id" validate:"max=128"`
	Owner   string                   `json:"owner" validate:"required"`
	Changes valueobjects.PostChanges `validate:"-"`
}

// Validate validates the CreatePostCommand
func (c CreatePostCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdatePostCommand sets attributes of an existing post on behalf of Caller
type UpdatePostCommand struct {
	PostID  string                   `json:"post_id" validate:"required,max=128"`
	Caller  string                   `json:"caller" validate:"required"`
	Changes valueobjects.PostChanges `validate:"-"`
}

// Validate validates the UpdatePostCommand
func (c UpdatePostCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DeletePostCommand removes an existing post on behalf of Caller
type DeletePostCommand struct {
	PostID string `json:"post_id" validate:"required,max=128"`
	Caller string `json:"caller" validate:"required"`
}

// Validate validates the DeletePostCommand
func (c DeletePostCommand) Validate() error {
	return utils.ValidateStruct(c)
}
