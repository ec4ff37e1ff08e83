package events

import "time"

// Event type names as they appear in the event bus detail-type
const (
	TypePostCreated = "post.created"
	TypePostUpdated = "post.updated"
	TypePostDeleted = "post.deleted"
)

// PostCreated is raised when a post is stored for the first time
type PostCreated struct {
	BaseEvent
	PostID  string `json:"post_id"`
	Owner   string `json:"owner"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(postID, owner, title, content string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: newBaseEvent(postID, TypePostCreated, timestamp),
		PostID:    postID,
		Owner:     owner,
		Title:     title,
		Content:   content,
	}
}

// PostUpdated is raised when attributes of a post change.
// Changed holds only the attributes that were written.
type PostUpdated struct {
	BaseEvent
	PostID  string            `json:"post_id"`
	Owner   string            `json:"owner"`
	Changed map[string]string `json:"changed"`
}

// NewPostUpdated creates a PostUpdated event
func NewPostUpdated(postID, owner string, changed map[string]string, timestamp time.Time) PostUpdated {
	return PostUpdated{
		BaseEvent: newBaseEvent(postID, TypePostUpdated, timestamp),
		PostID:    postID,
		Owner:     owner,
		Changed:   changed,
	}
}

// PostDeleted is raised when a post is removed
type PostDeleted struct {
	BaseEvent
	PostID string `json:"post_id"`
	Owner  string `json:"owner"`
}

// NewPostDeleted creates a PostDeleted event
func NewPostDeleted(postID, owner string, timestamp time.Time) PostDeleted {
	return PostDeleted{
		BaseEvent: newBaseEvent(postID, TypePostDeleted, timestamp),
		PostID:    postID,
		Owner:     owner,
	}
}
