package author

import (
	"courselibrary-backend/internal/shared/shaping"
	"courselibrary-backend/internal/shared/sorting"
)

// Storage fields of Author that sort steps can name.
const (
	FieldID           = "Id"
	FieldFirstName    = "FirstName"
	FieldLastName     = "LastName"
	FieldDateOfBirth  = "DateOfBirth"
	FieldMainCategory = "MainCategory"
)

// DefaultOrderBy applies when a collection request names no order.
const DefaultOrderBy = "Name"

// PropertyMapping translates AuthorDto sort names to Author storage fields.
// Age sorts opposite to date of birth.
var PropertyMapping = sorting.NewTable(map[string]sorting.PropertyMapping{
	"Id":           {DestinationProperties: []string{FieldID}},
	"MainCategory": {DestinationProperties: []string{FieldMainCategory}},
	"Age":          {DestinationProperties: []string{FieldDateOfBirth}, Revert: true},
	"Name":         {DestinationProperties: []string{FieldFirstName, FieldLastName}},
})

var FriendlyFields = shaping.NewRegistry[AuthorDto]().
	Field("id", func(a AuthorDto) any { return a.ID }).
	Field("name", func(a AuthorDto) any { return a.Name }).
	Field("age", func(a AuthorDto) any { return a.Age }).
	Field("mainCategory", func(a AuthorDto) any { return a.MainCategory })

var FullFields = shaping.NewRegistry[AuthorFullDto]().
	Field("id", func(a AuthorFullDto) any { return a.ID }).
	Field("firstName", func(a AuthorFullDto) any { return a.FirstName }).
	Field("lastName", func(a AuthorFullDto) any { return a.LastName }).
	Field("dateOfBirth", func(a AuthorFullDto) any { return a.DateOfBirth }).
	Field("mainCategory", func(a AuthorFullDto) any { return a.MainCategory })
