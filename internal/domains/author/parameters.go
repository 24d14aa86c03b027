package author

import (
	"strconv"
	"strings"

	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/internal/shared/routes"
)

// ResourceParameters is the query string of GET /api/authors.
type ResourceParameters struct {
	MainCategory string `form:"mainCategory"`
	SearchQuery  string `form:"searchQuery"`
	PageNumber   int    `form:"pageNumber"`
	PageSize     int    `form:"pageSize"`
	OrderBy      string `form:"orderBy"`
	Fields       string `form:"fields"`
}

// Normalize trims filters, clamps paging and applies the default order.
func (p ResourceParameters) Normalize(defaultPageSize, maxPageSize int) ResourceParameters {
	p.MainCategory = strings.TrimSpace(p.MainCategory)
	p.SearchQuery = strings.TrimSpace(p.SearchQuery)
	if strings.TrimSpace(p.OrderBy) == "" {
		p.OrderBy = DefaultOrderBy
	}

	page := p.Paging().Normalize(defaultPageSize, maxPageSize)
	p.PageNumber = page.PageNumber
	p.PageSize = page.PageSize
	return p
}

func (p ResourceParameters) Paging() pagination.Params {
	return pagination.Params{PageNumber: p.PageNumber, PageSize: p.PageSize}
}

func (p ResourceParameters) CurrentPage() int {
	return p.PageNumber
}

// QueryParams renders the request for a paging link. Empty values are dropped
// by the route resolver.
func (p ResourceParameters) QueryParams(pageNumber int) []routes.Param {
	return []routes.Param{
		routes.P("fields", p.Fields),
		routes.P("orderBy", p.OrderBy),
		routes.P("pageNumber", strconv.Itoa(pageNumber)),
		routes.P("pageSize", strconv.Itoa(p.PageSize)),
		routes.P("mainCategory", p.MainCategory),
		routes.P("searchQuery", p.SearchQuery),
	}
}
