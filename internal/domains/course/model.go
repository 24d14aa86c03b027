package course

import "github.com/google/uuid"

// Course belongs to exactly one Author and is deleted with it.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"` // empty is stored as NULL
	AuthorID    uuid.UUID `json:"authorId"`
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1500
)
