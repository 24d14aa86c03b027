package repository

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/internal/shared/sorting"
)

var authorComparators = map[string]sorting.Comparator[author.Author]{
	author.FieldID: func(a, b author.Author) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	},
	author.FieldFirstName: func(a, b author.Author) int {
		return cmp.Compare(a.FirstName, b.FirstName)
	},
	author.FieldLastName: func(a, b author.Author) int {
		return cmp.Compare(a.LastName, b.LastName)
	},
	author.FieldDateOfBirth: func(a, b author.Author) int {
		return a.DateOfBirth.Compare(b.DateOfBirth)
	},
	author.FieldMainCategory: func(a, b author.Author) int {
		return cmp.Compare(a.MainCategory, b.MainCategory)
	},
}

// MemoryStore keeps authors and courses in maps. Writes build new maps and
// swap them in under the lock, so a failed batch leaves nothing behind.
type MemoryStore struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]author.Author
	courses map[uuid.UUID]course.Course
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		authors: make(map[uuid.UUID]author.Author),
		courses: make(map[uuid.UUID]course.Course),
	}
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// ========================================
// AUTHORS
// ========================================

func (s *MemoryStore) GetAuthor(_ context.Context, id uuid.UUID) (*author.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *MemoryStore) ListAuthors(_ context.Context, q AuthorQuery) (pagination.Page[author.Author], error) {
	s.mu.RLock()
	matches := make([]author.Author, 0, len(s.authors))
	for _, a := range s.authors {
		if matchesAuthor(a, q) {
			matches = append(matches, a)
		}
	}
	s.mu.RUnlock()

	// id order first so equal sort keys come out the same way every time
	slices.SortFunc(matches, authorComparators[author.FieldID])
	if err := sorting.SortStable(matches, q.OrderBy, authorComparators); err != nil {
		return pagination.Page[author.Author]{}, err
	}

	return pagination.Paginate(matches, q.Page), nil
}

func matchesAuthor(a author.Author, q AuthorQuery) bool {
	if q.MainCategory != "" && !strings.EqualFold(a.MainCategory, q.MainCategory) {
		return false
	}
	if q.SearchQuery != "" {
		needle := strings.ToLower(q.SearchQuery)
		return strings.Contains(strings.ToLower(a.MainCategory), needle) ||
			strings.Contains(strings.ToLower(a.FirstName), needle) ||
			strings.Contains(strings.ToLower(a.LastName), needle)
	}
	return true
}

func (s *MemoryStore) GetAuthorsByIDs(_ context.Context, ids []uuid.UUID) ([]author.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]author.Author, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.authors[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) AuthorExists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.authors[id]
	return ok, nil
}

// ========================================
// COURSES
// ========================================

func (s *MemoryStore) GetCourses(_ context.Context, authorID uuid.UUID) ([]course.Course, error) {
	s.mu.RLock()
	out := make([]course.Course, 0)
	for _, c := range s.courses {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b course.Course) int {
		if r := cmp.Compare(a.Title, b.Title); r != 0 {
			return r
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (s *MemoryStore) GetCourse(_ context.Context, authorID, courseID uuid.UUID) (*course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[courseID]
	if !ok || c.AuthorID != authorID {
		return nil, nil
	}
	return &c, nil
}

// ========================================
// WRITES
// ========================================

// Apply enforces the same constraints as the database schema: unique ids,
// courses reference an existing author, deleting an author cascades.
func (s *MemoryStore) Apply(_ context.Context, mutations []Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authors := maps.Clone(s.authors)
	courses := maps.Clone(s.courses)

	for _, m := range mutations {
		if err := applyTo(authors, courses, m); err != nil {
			return fmt.Errorf("%s: %w", m.Kind, err)
		}
	}

	s.authors = authors
	s.courses = courses
	return nil
}

func applyTo(authors map[uuid.UUID]author.Author, courses map[uuid.UUID]course.Course, m Mutation) error {
	a, c := m.Author, m.Course
	a.Courses = nil

	switch m.Kind {
	case InsertAuthor:
		if _, dup := authors[a.ID]; dup {
			return fmt.Errorf("%w: author %s exists", ErrConstraintViolation, a.ID)
		}
		authors[a.ID] = a
	case UpdateAuthor:
		if _, ok := authors[a.ID]; !ok {
			return ErrConcurrencyConflict
		}
		authors[a.ID] = a
	case DeleteAuthor:
		if _, ok := authors[a.ID]; !ok {
			return ErrConcurrencyConflict
		}
		delete(authors, a.ID)
		for id, owned := range courses {
			if owned.AuthorID == a.ID {
				delete(courses, id)
			}
		}
	case InsertCourse:
		if _, dup := courses[c.ID]; dup {
			return fmt.Errorf("%w: course %s exists", ErrConstraintViolation, c.ID)
		}
		if _, ok := authors[c.AuthorID]; !ok {
			return fmt.Errorf("%w: author %s does not exist", ErrConstraintViolation, c.AuthorID)
		}
		courses[c.ID] = c
	case UpdateCourse:
		if _, ok := courses[c.ID]; !ok {
			return ErrConcurrencyConflict
		}
		if _, ok := authors[c.AuthorID]; !ok {
			return fmt.Errorf("%w: author %s does not exist", ErrConstraintViolation, c.AuthorID)
		}
		courses[c.ID] = c
	case DeleteCourse:
		if _, ok := courses[c.ID]; !ok {
			return ErrConcurrencyConflict
		}
		delete(courses, c.ID)
	default:
		return fmt.Errorf("unsupported mutation %d", m.Kind)
	}
	return nil
}
