package repository

import (
	"context"

	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/internal/shared/sorting"
)

// AuthorQuery is a filtered, sorted, paged author lookup.
type AuthorQuery struct {
	// MainCategory matches exactly, ignoring case.
	MainCategory string
	// SearchQuery matches a substring of main category, first or last name.
	SearchQuery string
	OrderBy     []sorting.Step
	Page        pagination.Params
}

// Store is the persistence engine behind the facade.
// Reads return nil for a missing row. Apply must be all-or-nothing.
type Store interface {
	GetAuthor(ctx context.Context, id uuid.UUID) (*author.Author, error)
	ListAuthors(ctx context.Context, q AuthorQuery) (pagination.Page[author.Author], error)
	GetAuthorsByIDs(ctx context.Context, ids []uuid.UUID) ([]author.Author, error)
	AuthorExists(ctx context.Context, id uuid.UUID) (bool, error)

	GetCourses(ctx context.Context, authorID uuid.UUID) ([]course.Course, error)
	GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (*course.Course, error)

	Apply(ctx context.Context, mutations []Mutation) error
	Ping(ctx context.Context) error
}

// MutationKind is what a staged change does.
type MutationKind int

const (
	InsertAuthor MutationKind = iota
	DeleteAuthor
	UpdateAuthor
	InsertCourse
	UpdateCourse
	DeleteCourse
)

func (k MutationKind) String() string {
	switch k {
	case InsertAuthor:
		return "insert author"
	case DeleteAuthor:
		return "delete author"
	case UpdateAuthor:
		return "update author"
	case InsertCourse:
		return "insert course"
	case UpdateCourse:
		return "update course"
	case DeleteCourse:
		return "delete course"
	default:
		return "unknown"
	}
}

// Mutation is one staged change. Author is set for author kinds, Course for
// course kinds. Values are copies taken when the change was staged.
type Mutation struct {
	Kind   MutationKind
	Author author.Author
	Course course.Course
}
