package author

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courselibrary-backend/internal/shared/routes"
	"courselibrary-backend/internal/shared/sorting"
)

func TestResourceParameters_Normalize(t *testing.T) {
	p := ResourceParameters{MainCategory: "  Rum ", PageSize: 50}.Normalize(10, 20)

	assert.Equal(t, "Rum", p.MainCategory)
	assert.Equal(t, DefaultOrderBy, p.OrderBy)
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, 20, p.PageSize)
}

func TestResourceParameters_QueryParams(t *testing.T) {
	p := ResourceParameters{OrderBy: "age", PageNumber: 2, PageSize: 5, SearchQuery: "rum"}

	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, []routes.Param{
		routes.P("fields", ""),
		routes.P("orderBy", "age"),
		routes.P("pageNumber", "3"),
		routes.P("pageSize", "5"),
		routes.P("mainCategory", ""),
		routes.P("searchQuery", "rum"),
	}, p.QueryParams(3))
}

func TestPropertyMapping(t *testing.T) {
	steps, err := sorting.Translate("age desc, name", PropertyMapping)
	assert.NoError(t, err)
	assert.Equal(t, []sorting.Step{
		{Field: FieldDateOfBirth, Direction: sorting.Ascending},
		{Field: FieldFirstName, Direction: sorting.Ascending},
		{Field: FieldLastName, Direction: sorting.Ascending},
	}, steps)

	_, err = sorting.Translate("dateOfBirth", PropertyMapping)
	assert.ErrorIs(t, err, sorting.ErrUnknownField)
}

func TestFields(t *testing.T) {
	assert.True(t, FriendlyFields.HasFields("Name, AGE"))
	assert.False(t, FriendlyFields.HasFields("firstName"))
	assert.True(t, FullFields.HasFields("firstName,dateOfBirth"))
	assert.False(t, FullFields.HasFields("age"))
}
