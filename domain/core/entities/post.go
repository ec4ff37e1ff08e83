package entities

import (
	"time"

	"blog-backend/domain/core/valueobjects"
	"blog-backend/domain/events"
	pkgerrors "blog-backend/pkg/errors"
)

// Post is a blog post owned by the user who created it.
// The owner is stamped once at creation and never changes afterwards.
type Post struct {
	id      valueobjects.PostID
	owner   string
	title   string
	content string

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewPost creates a post owned by owner.
// An empty id is replaced by a generated one; owner always comes from the caller identity.
func NewPost(id string, owner string, changes valueobjects.PostChanges) (*Post, error) {
	if owner == "" {
		return nil, pkgerrors.NewValidationError("owner cannot be empty")
	}

	postID, err := valueobjects.NewPostIDOrGenerate(id)
	if err != nil {
		return nil, err
	}

	post := &Post{
		id:     postID,
		owner:  owner,
		events: []events.DomainEvent{},
	}
	post.assign(changes)

	post.addEvent(events.NewPostCreated(postID.String(), owner, post.title, post.content, time.Now()))

	return post, nil
}

// ReconstructPost rebuilds a post from stored data without raising events
func ReconstructPost(id valueobjects.PostID, owner, title, content string) (*Post, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("post ID cannot be empty")
	}
	if owner == "" {
		return nil, pkgerrors.NewValidationError("owner cannot be empty")
	}

	return &Post{
		id:      id,
		owner:   owner,
		title:   title,
		content: content,
		events:  []events.DomainEvent{},
	}, nil
}

// ID returns the post identifier
func (p *Post) ID() valueobjects.PostID {
	return p.id
}

// Owner returns the identity that created the post
func (p *Post) Owner() string {
	return p.owner
}

// Title returns the post title
func (p *Post) Title() string {
	return p.title
}

// Content returns the markdown body
func (p *Post) Content() string {
	return p.content
}

// IsOwnedBy reports whether identity may mutate the post
func (p *Post) IsOwnedBy(identity string) bool {
	return identity != "" && p.owner == identity
}

// ApplyChanges sets each attribute in changes; attributes not named are left untouched
func (p *Post) ApplyChanges(changes valueobjects.PostChanges) {
	if changes.IsEmpty() {
		return
	}
	p.assign(changes)

	changed := make(map[string]string, changes.Len())
	for _, c := range changes.Changes() {
		changed[string(c.Field)] = c.Value
	}
	p.addEvent(events.NewPostUpdated(p.id.String(), p.owner, changed, time.Now()))
}

// MarkDeleted records the deletion of the post
func (p *Post) MarkDeleted() {
	p.addEvent(events.NewPostDeleted(p.id.String(), p.owner, time.Now()))
}

func (p *Post) assign(changes valueobjects.PostChanges) {
	for _, c := range changes.Changes() {
		switch c.Field {
		case valueobjects.FieldTitle:
			p.title = c.Value
		case valueobjects.FieldContent:
			p.content = c.Value
		}
	}
}

// GetUncommittedEvents returns events that haven't been persisted
func (p *Post) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *Post) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

func (p *Post) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}
