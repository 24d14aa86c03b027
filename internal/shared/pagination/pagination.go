package pagination

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 20

	// MaxPageNumber keeps (pageNumber-1)*pageSize and pageNumber+1 inside int.
	MaxPageNumber = math.MaxInt32
)

// Params is a one-based page request.
type Params struct {
	PageNumber int
	PageSize   int
}

// Normalize clamps the request: page number to [1, MaxPageNumber], page size
// to [1, maxPageSize], using defaultSize when none was given.
func (p Params) Normalize(defaultSize, maxPageSize int) Params {
	if maxPageSize < 1 {
		maxPageSize = MaxPageSize
	}
	if defaultSize < 1 || defaultSize > maxPageSize {
		defaultSize = min(DefaultPageSize, maxPageSize)
	}

	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset is the number of items skipped before this page. It saturates at
// math.MaxInt instead of wrapping.
func (p Params) Offset() int {
	if p.PageNumber < 1 || p.PageSize < 1 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

// Page is one slice of a larger sorted collection plus its position.
type Page[T any] struct {
	Items       []T
	TotalCount  int64
	PageSize    int
	CurrentPage int
	TotalPages  int
}

func (p Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Metadata is the JSON body of the X-Pagination header.
type Metadata struct {
	TotalCount  int64 `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

func (p Page[T]) Metadata() Metadata {
	return Metadata{
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
	}
}

// TotalPages is ceil(total/pageSize); zero items means zero pages.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// NewPage wraps items that were already skipped and taken by the source
// (e.g. LIMIT/OFFSET in SQL) together with the total match count.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalCount:  total,
		PageSize:    params.PageSize,
		CurrentPage: params.PageNumber,
		TotalPages:  TotalPages(total, params.PageSize),
	}
}

// Paginate counts source, skips to the requested page and takes one page.
// A page number past the end gives an empty page, not an error.
func Paginate[T any](source []T, params Params) Page[T] {
	total := len(source)
	start := params.Offset()

	var items []T
	if start < total {
		end := min(start+max(params.PageSize, 0), total)
		items = make([]T, end-start)
		copy(items, source[start:end])
	}

	return NewPage(items, int64(total), params)
}
