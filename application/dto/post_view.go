package dto

import (
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
)

// PostView is a post as returned to callers.
// Nil attributes are left out of the response; update results only carry what was written.
type PostView struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Owner   *string `json:"owner,omitempty"`
}

// NewPostView renders every attribute of post
func NewPostView(post *entities.Post) *PostView {
	title, content, owner := post.Title(), post.Content(), post.Owner()
	return &PostView{
		ID:      post.ID().String(),
		Title:   &title,
		Content: &content,
		Owner:   &owner,
	}
}

// NewPostViews renders a list of posts; the result is never nil
func NewPostViews(posts []*entities.Post) []*PostView {
	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return views
}

// NewUpdatedPostView renders the id plus the attributes an update wrote
func NewUpdatedPostView(id valueobjects.PostID, written valueobjects.PostChanges) *PostView {
	view := &PostView{ID: id.String()}
	for _, c := range written.Changes() {
		value := c.Value
		switch c.Field {
		case valueobjects.FieldTitle:
			view.Title = &value
		case valueobjects.FieldContent:
			view.Content = &value
		}
	}
	return view
}
