package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/pkg/logger"
)

//go:embed seed.yaml
var seedYAML []byte

const seedDateLayout = "2006-01-02"

type seedFile struct {
	Authors []seedAuthor `yaml:"authors"`
}

type seedAuthor struct {
	ID           string       `yaml:"id"`
	FirstName    string       `yaml:"firstName"`
	LastName     string       `yaml:"lastName"`
	DateOfBirth  string       `yaml:"dateOfBirth"`
	DateOfDeath  string       `yaml:"dateOfDeath"`
	MainCategory string       `yaml:"mainCategory"`
	Courses      []seedCourse `yaml:"courses"`
}

type seedCourse struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// SeedAuthors parses the embedded sample data.
func SeedAuthors() ([]author.Author, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) ([]author.Author, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	authors := make([]author.Author, 0, len(file.Authors))
	for _, sa := range file.Authors {
		a, err := sa.toEntity()
		if err != nil {
			return nil, fmt.Errorf("seed author %q: %w", sa.FirstName+" "+sa.LastName, err)
		}
		authors = append(authors, a)
	}
	return authors, nil
}

func (sa seedAuthor) toEntity() (author.Author, error) {
	id, err := uuid.Parse(sa.ID)
	if err != nil {
		return author.Author{}, err
	}
	dob, err := time.Parse(seedDateLayout, sa.DateOfBirth)
	if err != nil {
		return author.Author{}, err
	}

	a := author.Author{
		ID:           id,
		FirstName:    sa.FirstName,
		LastName:     sa.LastName,
		DateOfBirth:  dob,
		MainCategory: sa.MainCategory,
	}
	if sa.DateOfDeath != "" {
		dod, err := time.Parse(seedDateLayout, sa.DateOfDeath)
		if err != nil {
			return author.Author{}, err
		}
		a.DateOfDeath = &dod
	}

	for _, sc := range sa.Courses {
		courseID, err := uuid.Parse(sc.ID)
		if err != nil {
			return author.Author{}, err
		}
		a.Courses = append(a.Courses, course.Course{
			ID:          courseID,
			Title:       sc.Title,
			Description: sc.Description,
			AuthorID:    id,
		})
	}
	return a, nil
}

// Seed loads the sample authors into an empty store. A store that already
// holds authors is left alone.
func Seed(ctx context.Context, store Store) error {
	existing, err := store.ListAuthors(ctx, AuthorQuery{Page: pagination.Params{PageNumber: 1, PageSize: 1}})
	if err != nil {
		return fmt.Errorf("check existing authors: %w", err)
	}
	if existing.TotalCount > 0 {
		logger.Debug("seed skipped, store already has authors")
		return nil
	}

	authors, err := SeedAuthors()
	if err != nil {
		return err
	}

	var mutations []Mutation
	for _, a := range authors {
		row := a
		row.Courses = nil
		mutations = append(mutations, Mutation{Kind: InsertAuthor, Author: row})
		for _, c := range a.Courses {
			mutations = append(mutations, Mutation{Kind: InsertCourse, Course: c})
		}
	}

	if err := store.Apply(ctx, mutations); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}

	logger.Info("seed data loaded", map[string]interface{}{"authors": len(authors)})
	return nil
}
