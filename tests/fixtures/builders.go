package fixtures

import (
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"

	"github.com/bxcodec/faker/v3"
)

// PostBuilder helps create test posts with default values
type PostBuilder struct {
	id      valueobjects.PostID
	owner   string
	title   string
	content string
}

func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		id:      valueobjects.NewPostID(),
		owner:   "test-user-123",
		title:   "Test Post",
		content: "Test content",
	}
}

// NewRandomPostBuilder fills title and content with generated text
func NewRandomPostBuilder() *PostBuilder {
	return NewPostBuilder().
		WithOwner(faker.Username()).
		WithTitle(faker.Sentence()).
		WithContent(faker.Paragraph())
}

func (b *PostBuilder) WithID(id string) *PostBuilder {
	b.id, _ = valueobjects.NewPostIDFromString(id)
	return b
}

func (b *PostBuilder) WithOwner(owner string) *PostBuilder {
	b.owner = owner
	return b
}

func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

func (b *PostBuilder) WithContent(content string) *PostBuilder {
	b.content = content
	return b
}

func (b *PostBuilder) Build() (*entities.Post, error) {
	return entities.ReconstructPost(b.id, b.owner, b.title, b.content)
}

func (b *PostBuilder) MustBuild() *entities.Post {
	post, err := b.Build()
	if err != nil {
		panic(err)
	}
	return post
}

// Changes builds a change set from field/value pairs, panicking on invalid input
func Changes(pairs ...string) valueobjects.PostChanges {
	changes := make([]valueobjects.FieldChange, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		changes = append(changes, valueobjects.FieldChange{
			Field: valueobjects.PostField(pairs[i]),
			Value: pairs[i+1],
		})
	}
	pc, err := valueobjects.NewPostChanges(changes...)
	if err != nil {
		panic(err)
	}
	return pc
}
