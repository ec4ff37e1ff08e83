package valueobjects

import (
	"encoding/json"
	"fmt"
	"strings"

	"blog-backend/domain/config"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/google/uuid"
)

// PostID is the opaque primary key of a post.
// Generated ids are random UUIDs; client-supplied ids are accepted as-is.
type PostID struct {
	value string
}

// NewPostID creates a new random PostID
func NewPostID() PostID {
	return PostID{value: uuid.New().String()}
}

// NewPostIDFromString creates a PostID from an existing string
func NewPostIDFromString(id string) (PostID, error) {
	if strings.TrimSpace(id) == "" {
		return PostID{}, pkgerrors.NewValidationError("post ID cannot be empty")
	}
	if max := config.DefaultDomainConfig().MaxIDLength; len(id) > max {
		return PostID{}, pkgerrors.NewValidationError(fmt.Sprintf("post ID exceeds maximum length of %d", max))
	}
	return PostID{value: id}, nil
}

// NewPostIDOrGenerate keeps a client-supplied id and generates one when it is empty
func NewPostIDOrGenerate(id string) (PostID, error) {
	if id == "" {
		return NewPostID(), nil
	}
	return NewPostIDFromString(id)
}

// String returns the string representation of the PostID
func (id PostID) String() string {
	return id.value
}

// Equals checks if two PostIDs are equal
func (id PostID) Equals(other PostID) bool {
	return id.value == other.value
}

// IsZero checks if the PostID is the zero value
func (id PostID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id PostID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *PostID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return pkgerrors.NewValidationError("PostID must be a string")
	}
	id.value = s
	return nil
}
