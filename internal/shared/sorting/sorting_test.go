package sorting

import (
	"cmp"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authorTable() *Table {
	return NewTable(map[string]PropertyMapping{
		"Id":           {DestinationProperties: []string{"Id"}},
		"MainCategory": {DestinationProperties: []string{"MainCategory"}},
		"Age":          {DestinationProperties: []string{"DateOfBirth"}, Revert: true},
		"Name":         {DestinationProperties: []string{"FirstName", "LastName"}},
	})
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		want    []Step
	}{
		{
			name:    "empty yields no steps",
			orderBy: "  ",
			want:    nil,
		},
		{
			name:    "name desc expands to two descending steps",
			orderBy: "name desc",
			want: []Step{
				{Field: "FirstName", Direction: Descending},
				{Field: "LastName", Direction: Descending},
			},
		},
		{
			name:    "age is reverted to date of birth descending",
			orderBy: "age",
			want:    []Step{{Field: "DateOfBirth", Direction: Descending}},
		},
		{
			name:    "age desc is reverted to date of birth ascending",
			orderBy: "Age DESC",
			want:    []Step{{Field: "DateOfBirth", Direction: Ascending}},
		},
		{
			name:    "clauses keep request order",
			orderBy: "mainCategory, name",
			want: []Step{
				{Field: "MainCategory", Direction: Ascending},
				{Field: "FirstName", Direction: Ascending},
				{Field: "LastName", Direction: Ascending},
			},
		},
		{
			name:    "anything but desc is ascending",
			orderBy: "id asc",
			want:    []Step{{Field: "Id", Direction: Ascending}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.orderBy, authorTable())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_UnknownField(t *testing.T) {
	for _, orderBy := range []string{"title", "name, title desc", "name,,age"} {
		_, err := Translate(orderBy, authorTable())
		require.Error(t, err, orderBy)
		assert.True(t, errors.Is(err, ErrUnknownField), orderBy)
	}
}

func TestTable_ValidMappingExistsFor(t *testing.T) {
	table := authorTable()

	assert.True(t, table.ValidMappingExistsFor(""))
	assert.True(t, table.ValidMappingExistsFor("Name"))
	assert.True(t, table.ValidMappingExistsFor("maincategory desc, age"))
	assert.False(t, table.ValidMappingExistsFor("DateOfBirth"))
}

type person struct {
	First string
	Last  string
	Born  time.Time
}

var personComparators = map[string]Comparator[person]{
	"FirstName":   func(a, b person) int { return cmp.Compare(a.First, b.First) },
	"LastName":    func(a, b person) int { return cmp.Compare(a.Last, b.Last) },
	"DateOfBirth": func(a, b person) int { return a.Born.Compare(b.Born) },
}

func TestSortStable_MultiKey(t *testing.T) {
	people := []person{
		{First: "Eli", Last: "Sweet"},
		{First: "Arnold", Last: "Stafford"},
		{First: "Eli", Last: "Bones"},
	}

	steps, err := Translate("name desc", authorTable())
	require.NoError(t, err)
	require.NoError(t, SortStable(people, steps, personComparators))

	assert.Equal(t, []person{
		{First: "Eli", Last: "Sweet"},
		{First: "Eli", Last: "Bones"},
		{First: "Arnold", Last: "Stafford"},
	}, people)
}

func TestSortStable_AgeAscendingMeansYoungestFirst(t *testing.T) {
	old := person{First: "Old", Born: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)}
	young := person{First: "Young", Born: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	people := []person{old, young}

	steps, err := Translate("age", authorTable())
	require.NoError(t, err)
	require.NoError(t, SortStable(people, steps, personComparators))

	assert.Equal(t, []person{young, old}, people)
}

func TestSortStable_KeepsOrderOfEqualElements(t *testing.T) {
	people := []person{
		{First: "B", Last: "1"},
		{First: "A", Last: "2"},
		{First: "B", Last: "3"},
		{First: "A", Last: "4"},
	}

	err := SortStable(people, []Step{{Field: "FirstName"}}, personComparators)
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "4", "1", "3"},
		[]string{people[0].Last, people[1].Last, people[2].Last, people[3].Last})
}

func TestSortStable_MissingComparator(t *testing.T) {
	err := SortStable([]person{{}, {}}, []Step{{Field: "Id"}}, personComparators)
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestOrderByClauses(t *testing.T) {
	columns := map[string]string{"FirstName": "first_name", "LastName": "last_name"}

	got, err := OrderByClauses([]Step{
		{Field: "FirstName", Direction: Descending},
		{Field: "LastName", Direction: Ascending},
	}, columns)
	require.NoError(t, err)
	assert.Equal(t, []string{`"first_name" DESC`, `"last_name" ASC`}, got)

	_, err = OrderByClauses([]Step{{Field: "Nope"}}, columns)
	assert.True(t, errors.Is(err, ErrUnknownField))
}
