package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/internal/shared/sorting"
	"courselibrary-backend/pkg/database"
	"courselibrary-backend/pkg/logger"
)

const (
	authorsTable = "authors"
	coursesTable = "courses"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var authorColumns = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death", "main_category"}

var courseColumns = []string{"id", "title", "COALESCE(description, '')", "author_id"}

// authorSortColumns maps sort step fields to columns.
var authorSortColumns = map[string]string{
	author.FieldID:           "id",
	author.FieldFirstName:    "first_name",
	author.FieldLastName:     "last_name",
	author.FieldDateOfBirth:  "date_of_birth",
	author.FieldMainCategory: "main_category",
}

// PostgresStore keeps authors and courses in PostgreSQL through pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ========================================
// AUTHORS
// ========================================

func (s *PostgresStore) GetAuthor(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	query, args, err := s.sb.Select(authorColumns...).
		From(authorsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author query: %w", err)
	}

	a, err := scanAuthor(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) ListAuthors(ctx context.Context, q AuthorQuery) (pagination.Page[author.Author], error) {
	var empty pagination.Page[author.Author]
	where := authorFilter(q)

	countSQL, countArgs, err := s.sb.Select("COUNT(*)").From(authorsTable).Where(where).ToSql()
	if err != nil {
		return empty, fmt.Errorf("build author count: %w", err)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return empty, fmt.Errorf("failed to count authors: %w", err)
	}

	orderBy, err := sorting.OrderByClauses(q.OrderBy, authorSortColumns)
	if err != nil {
		return empty, err
	}
	// id breaks ties so pages never overlap
	orderBy = append(orderBy, `"id" ASC`)

	query, args, err := s.sb.Select(authorColumns...).
		From(authorsTable).
		Where(where).
		OrderBy(orderBy...).
		Limit(uint64(q.Page.PageSize)).
		Offset(uint64(q.Page.Offset())).
		ToSql()
	if err != nil {
		return empty, fmt.Errorf("build author list: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return empty, fmt.Errorf("failed to list authors: %w", err)
	}
	authors, err := collectAuthors(rows)
	if err != nil {
		return empty, err
	}

	return pagination.NewPage(authors, total, q.Page), nil
}

func authorFilter(q AuthorQuery) sq.And {
	where := sq.And{}
	if q.MainCategory != "" {
		where = append(where, sq.Expr("lower(main_category) = lower(?)", q.MainCategory))
	}
	if q.SearchQuery != "" {
		pattern := "%" + escapeLike(q.SearchQuery) + "%"
		where = append(where, sq.Or{
			sq.ILike{"main_category": pattern},
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
		})
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *PostgresStore) GetAuthorsByIDs(ctx context.Context, ids []uuid.UUID) ([]author.Author, error) {
	if len(ids) == 0 {
		return []author.Author{}, nil
	}

	query, args, err := s.sb.Select(authorColumns...).
		From(authorsTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author batch query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors by ids: %w", err)
	}
	return collectAuthors(rows)
}

func (s *PostgresStore) AuthorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := s.sb.Select("1").
		Prefix("SELECT EXISTS(").
		From(authorsTable).
		Where(sq.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build author exists: %w", err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func scanAuthor(row pgx.Row) (author.Author, error) {
	var a author.Author
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.DateOfDeath, &a.MainCategory)
	return a, err
}

func collectAuthors(rows pgx.Rows) ([]author.Author, error) {
	authors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (author.Author, error) {
		return scanAuthor(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan authors: %w", err)
	}
	return authors, nil
}

// ========================================
// COURSES
// ========================================

func (s *PostgresStore) GetCourses(ctx context.Context, authorID uuid.UUID) ([]course.Course, error) {
	query, args, err := s.sb.Select(courseColumns...).
		From(coursesTable).
		Where(sq.Eq{"author_id": authorID}).
		OrderBy("title ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course list: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (course.Course, error) {
		return scanCourse(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}
	return courses, nil
}

func (s *PostgresStore) GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (*course.Course, error) {
	query, args, err := s.sb.Select(courseColumns...).
		From(coursesTable).
		Where(sq.Eq{"id": courseID, "author_id": authorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build course query: %w", err)
	}

	c, err := scanCourse(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &c, nil
}

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.AuthorID)
	return c, err
}

// ========================================
// WRITES
// ========================================

// Apply runs every mutation in one transaction. An update or delete that
// touches no row fails the whole batch with ErrConcurrencyConflict.
func (s *PostgresStore) Apply(ctx context.Context, mutations []Mutation) error {
	affected, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (int64, error) {
		var total int64
		for _, m := range mutations {
			n, err := s.apply(ctx, tx, m)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	})
	if err != nil {
		return mapPgError(err)
	}

	logger.Info("[DATABASE] changes saved", map[string]interface{}{
		"mutations": len(mutations),
		"rows":      affected,
	})
	return nil
}

func (s *PostgresStore) apply(ctx context.Context, tx pgx.Tx, m Mutation) (int64, error) {
	stmt, err := s.statement(m)
	if err != nil {
		return 0, err
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", m.Kind, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.Kind, err)
	}

	switch m.Kind {
	case UpdateAuthor, UpdateCourse, DeleteCourse, DeleteAuthor:
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("%s: %w", m.Kind, ErrConcurrencyConflict)
		}
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) statement(m Mutation) (sq.Sqlizer, error) {
	a, c := m.Author, m.Course

	switch m.Kind {
	case InsertAuthor:
		return s.sb.Insert(authorsTable).
			Columns(authorColumns...).
			Values(a.ID, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath, a.MainCategory), nil
	case UpdateAuthor:
		return s.sb.Update(authorsTable).
			SetMap(map[string]interface{}{
				"first_name":    a.FirstName,
				"last_name":     a.LastName,
				"date_of_birth": a.DateOfBirth,
				"date_of_death": a.DateOfDeath,
				"main_category": a.MainCategory,
			}).
			Where(sq.Eq{"id": a.ID}), nil
	case DeleteAuthor:
		// courses go with it through ON DELETE CASCADE
		return s.sb.Delete(authorsTable).Where(sq.Eq{"id": a.ID}), nil
	case InsertCourse:
		return s.sb.Insert(coursesTable).
			Columns("id", "title", "description", "author_id").
			Values(c.ID, c.Title, nullIfEmpty(c.Description), c.AuthorID), nil
	case UpdateCourse:
		return s.sb.Update(coursesTable).
			SetMap(map[string]interface{}{
				"title":       c.Title,
				"description": nullIfEmpty(c.Description),
				"author_id":   c.AuthorID,
			}).
			Where(sq.Eq{"id": c.ID}), nil
	case DeleteCourse:
		return s.sb.Delete(coursesTable).Where(sq.Eq{"id": c.ID}), nil
	default:
		return nil, fmt.Errorf("unsupported mutation %d", m.Kind)
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.ConstraintName)
		}
	}
	return err
}
