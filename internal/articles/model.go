package articles

import "time"

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Article is one piece of content managed through the editor.
type Article struct {
	ID        int64
	Title     string
	Slug      string
	Body      string
	Status    Status
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
