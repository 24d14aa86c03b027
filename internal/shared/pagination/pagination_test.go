package pagination

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	source := numbers(45)

	tests := []struct {
		name        string
		pageNumber  int
		wantItems   []int
		hasPrevious bool
		hasNext     bool
	}{
		{"first page", 1, numbers(10), false, true},
		{"middle page", 3, []int{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}, true, true},
		{"last partial page", 5, []int{41, 42, 43, 44, 45}, true, false},
		{"past the end", 6, []int{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(source, Params{PageNumber: tt.pageNumber, PageSize: 10})

			assert.Equal(t, tt.wantItems, page.Items)
			assert.Equal(t, int64(45), page.TotalCount)
			assert.Equal(t, 5, page.TotalPages)
			assert.Equal(t, tt.pageNumber, page.CurrentPage)
			assert.Equal(t, tt.hasPrevious, page.HasPrevious())
			assert.Equal(t, tt.hasNext, page.HasNext())
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate([]string{}, Params{PageNumber: 1, PageSize: 10})

	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrevious())
}

func TestPaginate_DoesNotAliasSource(t *testing.T) {
	source := numbers(3)
	page := Paginate(source, Params{PageNumber: 1, PageSize: 2})

	page.Items[0] = 99
	assert.Equal(t, 1, source[0])
}

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"defaults", Params{}, Params{PageNumber: 1, PageSize: 10}},
		{"within bounds", Params{PageNumber: 2, PageSize: 15}, Params{PageNumber: 2, PageSize: 15}},
		{"capped at max", Params{PageNumber: 1, PageSize: 500}, Params{PageNumber: 1, PageSize: 20}},
		{"negative page", Params{PageNumber: -3, PageSize: 5}, Params{PageNumber: 1, PageSize: 5}},
		{"huge page", Params{PageNumber: math.MaxInt, PageSize: 20}, Params{PageNumber: MaxPageNumber, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(10, 20))
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, Params{PageNumber: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Params{PageNumber: 3, PageSize: 10}.Offset())
	assert.Equal(t, 0, Params{}.Offset())
	assert.Equal(t, math.MaxInt, Params{PageNumber: math.MaxInt, PageSize: 10}.Offset())
	assert.Equal(t, (MaxPageNumber-1)*MaxPageSize, Params{PageNumber: MaxPageNumber, PageSize: MaxPageSize}.Offset())
}

func TestPaginate_HugePageNumber(t *testing.T) {
	for _, n := range []int{math.MaxInt, math.MaxInt/10 + 2, MaxPageNumber} {
		page := Paginate(numbers(45), Params{PageNumber: n, PageSize: 10})

		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.Equal(t, int64(45), page.TotalCount)
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrevious())
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(45, 10))
}

func TestMetadata_JSON(t *testing.T) {
	page := NewPage([]int{1, 2}, 12, Params{PageNumber: 2, PageSize: 10})

	data, err := json.Marshal(page.Metadata())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalCount":12,"pageSize":10,"currentPage":2,"totalPages":2}`, string(data))
}
