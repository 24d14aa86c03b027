package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAuthors(t *testing.T) {
	authors, err := SeedAuthors()
	require.NoError(t, err)
	require.Len(t, authors, 7)

	berry := authors[0]
	assert.Equal(t, berryID, berry.ID)
	assert.Equal(t, "Berry Griffin Beak Eldritch", berry.Name())
	assert.Equal(t, "1980-07-23", berry.DateOfBirth.Format(seedDateLayout))
	require.Len(t, berry.Courses, 2)
	assert.Equal(t, berryID, berry.Courses[0].AuthorID)
	assert.True(t, strings.HasPrefix(berry.Courses[0].Description, "Commandeering a ship in rough waters isn't easy.  Commandeering"))
	assert.True(t, strings.HasSuffix(berry.Courses[0].Description, "pesky musketeers."))

	courses := 0
	for _, a := range authors {
		courses += len(a.Courses)
	}
	assert.Equal(t, 4, courses)
}

func TestSeed_SkipsPopulatedStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store))
	require.NoError(t, Seed(ctx, store))

	courses, err := store.GetCourses(ctx, berryID)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestParseSeed_BadID(t *testing.T) {
	_, err := parseSeed([]byte("authors:\n  - id: nope\n    dateOfBirth: \"1980-01-01\"\n"))
	assert.Error(t, err)
}
