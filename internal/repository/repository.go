// Package repository is the single data-access boundary of the API.
//
// A CourseLibraryRepository is a unit of work: reads go straight to the
// Store, writes are staged in memory and flushed together by Save.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/pkg/cache"
	"courselibrary-backend/pkg/logger"
)

var (
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	ErrNilArgument     = errors.New("argument must not be nil")

	// ErrNotFound is returned by batch reads when any requested row is missing.
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation is a duplicate key or a dangling reference.
	ErrConstraintViolation = errors.New("store constraint violation")

	// ErrConcurrencyConflict means a row to update or delete was gone at save time.
	ErrConcurrencyConflict = errors.New("row changed since it was read")
)

const (
	authorCacheKeyPrefix = "author:"
	defaultCacheTTL      = 15 * time.Minute
)

type CourseLibraryRepository interface {
	GetCourses(ctx context.Context, authorID uuid.UUID) ([]course.Course, error)
	GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (*course.Course, error)
	AddCourse(authorID uuid.UUID, c *course.Course) error
	UpdateCourse(c *course.Course) error
	DeleteCourse(c *course.Course) error

	GetAuthors(ctx context.Context, q AuthorQuery) (pagination.Page[author.Author], error)
	GetAuthor(ctx context.Context, authorID uuid.UUID) (*author.Author, error)
	GetAuthorsByIDs(ctx context.Context, authorIDs []uuid.UUID) ([]author.Author, error)
	AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error)
	AddAuthor(a *author.Author) error
	UpdateAuthor(a *author.Author) error
	DeleteAuthor(a *author.Author) error

	// Save flushes every staged change atomically and reports whether
	// anything was applied.
	Save(ctx context.Context) (bool, error)
}

// Provider hands out one repository per request over a shared store.
type Provider struct {
	store Store
	cache cache.Cache
	ttl   time.Duration

	defaultPageSize int
	maxPageSize     int
}

// NewProvider wires the store with an optional author cache; c may be nil.
func NewProvider(store Store, c cache.Cache, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Provider{
		store:           store,
		cache:           c,
		ttl:             ttl,
		defaultPageSize: pagination.DefaultPageSize,
		maxPageSize:     pagination.MaxPageSize,
	}
}

// WithPaging sets the default and maximum page size every GetAuthors call is
// clamped to.
func (p *Provider) WithPaging(defaultPageSize, maxPageSize int) *Provider {
	p.defaultPageSize, p.maxPageSize = defaultPageSize, maxPageSize
	return p
}

func (p *Provider) New() CourseLibraryRepository {
	return &courseLibraryRepository{
		store:           p.store,
		cache:           p.cache,
		ttl:             p.ttl,
		defaultPageSize: p.defaultPageSize,
		maxPageSize:     p.maxPageSize,
	}
}

// InvalidateAuthorCache drops every cached author, for when the store was
// rewritten behind the repository's back (reset or seed at startup).
func (p *Provider) InvalidateAuthorCache(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.DeletePattern(ctx, authorCacheKeyPrefix+"*"); err != nil {
		return fmt.Errorf("failed to invalidate author cache: %w", err)
	}
	return nil
}

func (p *Provider) Store() Store {
	return p.store
}

type courseLibraryRepository struct {
	store   Store
	cache   cache.Cache
	ttl     time.Duration
	pending []Mutation

	defaultPageSize int
	maxPageSize     int
}

// ========================================
// COURSES
// ========================================

func (r *courseLibraryRepository) GetCourses(ctx context.Context, authorID uuid.UUID) ([]course.Course, error) {
	if authorID == uuid.Nil {
		return nil, ErrEmptyIdentifier
	}
	return r.store.GetCourses(ctx, authorID)
}

func (r *courseLibraryRepository) GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (*course.Course, error) {
	if authorID == uuid.Nil || courseID == uuid.Nil {
		return nil, ErrEmptyIdentifier
	}
	return r.store.GetCourse(ctx, authorID, courseID)
}

// AddCourse stamps c with authorID whatever it carried before, and assigns
// an id unless the caller chose one.
func (r *courseLibraryRepository) AddCourse(authorID uuid.UUID, c *course.Course) error {
	if authorID == uuid.Nil {
		return ErrEmptyIdentifier
	}
	if c == nil {
		return ErrNilArgument
	}

	c.AuthorID = authorID
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	r.stage(Mutation{Kind: InsertCourse, Course: *c})
	return nil
}

func (r *courseLibraryRepository) UpdateCourse(c *course.Course) error {
	if c == nil {
		return ErrNilArgument
	}
	if c.ID == uuid.Nil || c.AuthorID == uuid.Nil {
		return ErrEmptyIdentifier
	}

	r.stage(Mutation{Kind: UpdateCourse, Course: *c})
	return nil
}

func (r *courseLibraryRepository) DeleteCourse(c *course.Course) error {
	if c == nil {
		return ErrNilArgument
	}
	if c.ID == uuid.Nil {
		return ErrEmptyIdentifier
	}

	r.stage(Mutation{Kind: DeleteCourse, Course: *c})
	return nil
}

// ========================================
// AUTHORS
// ========================================

func (r *courseLibraryRepository) GetAuthors(ctx context.Context, q AuthorQuery) (pagination.Page[author.Author], error) {
	q.Page = q.Page.Normalize(r.defaultPageSize, r.maxPageSize)
	return r.store.ListAuthors(ctx, q)
}

// GetAuthor reads through the cache. A missing author is nil, not an error.
func (r *courseLibraryRepository) GetAuthor(ctx context.Context, authorID uuid.UUID) (*author.Author, error) {
	if authorID == uuid.Nil {
		return nil, ErrEmptyIdentifier
	}

	key := authorCacheKey(authorID)
	if r.cache != nil {
		var cached author.Author
		hit, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("author cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if hit {
			return &cached, nil
		}
	}

	a, err := r.store.GetAuthor(ctx, authorID)
	if err != nil || a == nil {
		return a, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, a, r.ttl); err != nil {
			logger.Warn("author cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return a, nil
}

// GetAuthorsByIDs is all-or-nothing: any missing id gives ErrNotFound.
// Duplicate ids are fetched once; the result follows the order of first mention.
func (r *courseLibraryRepository) GetAuthorsByIDs(ctx context.Context, authorIDs []uuid.UUID) ([]author.Author, error) {
	if authorIDs == nil {
		return nil, ErrNilArgument
	}

	ids := make([]uuid.UUID, 0, len(authorIDs))
	seen := make(map[uuid.UUID]bool, len(authorIDs))
	for _, id := range authorIDs {
		if id == uuid.Nil {
			return nil, ErrEmptyIdentifier
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	found, err := r.store.GetAuthorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]author.Author, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	out := make([]author.Author, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("author %s: %w", id, ErrNotFound)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *courseLibraryRepository) AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	if authorID == uuid.Nil {
		return false, ErrEmptyIdentifier
	}
	return r.store.AuthorExists(ctx, authorID)
}

// AddAuthor assigns fresh ids to the author and its nested courses and
// stages them together.
func (r *courseLibraryRepository) AddAuthor(a *author.Author) error {
	if a == nil {
		return ErrNilArgument
	}

	a.ID = uuid.New()
	for i := range a.Courses {
		a.Courses[i].ID = uuid.New()
		a.Courses[i].AuthorID = a.ID
	}

	row := *a
	row.Courses = nil
	r.stage(Mutation{Kind: InsertAuthor, Author: row})
	for _, c := range a.Courses {
		r.stage(Mutation{Kind: InsertCourse, Course: c})
	}
	return nil
}

func (r *courseLibraryRepository) UpdateAuthor(a *author.Author) error {
	if a == nil {
		return ErrNilArgument
	}
	if a.ID == uuid.Nil {
		return ErrEmptyIdentifier
	}

	row := *a
	row.Courses = nil
	r.stage(Mutation{Kind: UpdateAuthor, Author: row})
	return nil
}

// DeleteAuthor also removes the author's courses when saved.
func (r *courseLibraryRepository) DeleteAuthor(a *author.Author) error {
	if a == nil {
		return ErrNilArgument
	}
	if a.ID == uuid.Nil {
		return ErrEmptyIdentifier
	}

	r.stage(Mutation{Kind: DeleteAuthor, Author: author.Author{ID: a.ID}})
	return nil
}

// ========================================
// UNIT OF WORK
// ========================================

func (r *courseLibraryRepository) stage(m Mutation) {
	r.pending = append(r.pending, m)
}

func (r *courseLibraryRepository) Save(ctx context.Context) (bool, error) {
	if len(r.pending) == 0 {
		return false, nil
	}

	pending := r.pending
	if err := r.store.Apply(ctx, pending); err != nil {
		return false, fmt.Errorf("save %d changes: %w", len(pending), err)
	}
	r.pending = nil

	r.invalidate(ctx, pending)
	return true, nil
}

func (r *courseLibraryRepository) invalidate(ctx context.Context, applied []Mutation) {
	if r.cache == nil {
		return
	}

	var keys []string
	for _, m := range applied {
		if m.Kind == UpdateAuthor || m.Kind == DeleteAuthor {
			keys = append(keys, authorCacheKey(m.Author.ID))
		}
	}
	if len(keys) == 0 {
		return
	}

	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("author cache invalidation failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

func authorCacheKey(id uuid.UUID) string {
	return authorCacheKeyPrefix + id.String()
}
