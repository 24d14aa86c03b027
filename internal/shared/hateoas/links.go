// Package hateoas builds the hypermedia links embedded in responses.
// URLs come from a named-route resolver; this package only decides which
// links exist and which route values they carry.
package hateoas

import (
	"fmt"
	"math"

	"courselibrary-backend/internal/shared/routes"
)

// Link is immutable once built.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Resolver turns a route name and values into an absolute URL.
type Resolver interface {
	Link(name string, params ...routes.Param) (string, error)
}

// Template describes one link of a fixed per-resource list.
type Template struct {
	Route  string
	Rel    string
	Method string
	Params []routes.Param
}

// Build resolves templates in order.
func Build(r Resolver, templates ...Template) ([]Link, error) {
	links := make([]Link, 0, len(templates))
	for _, t := range templates {
		href, err := r.Link(t.Route, t.Params...)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", t.Rel, err)
		}
		links = append(links, Link{Href: href, Rel: t.Rel, Method: t.Method})
	}
	return links, nil
}

// UriType selects which page of a collection a link points to.
type UriType int

const (
	Current UriType = iota
	NextPage
	PreviousPage
)

// PagedQuery is the query state of a paged collection request.
type PagedQuery interface {
	CurrentPage() int
	// QueryParams renders every query value with pageNumber replaced.
	QueryParams(pageNumber int) []routes.Param
}

// PageURI links to the current, next or previous page, holding every other
// query value constant.
func PageURI(r Resolver, route string, q PagedQuery, kind UriType) (string, error) {
	page := q.CurrentPage()
	switch kind {
	case NextPage:
		if page < math.MaxInt {
			page++
		}
	case PreviousPage:
		if page > 1 {
			page--
		}
	}
	return r.Link(route, q.QueryParams(page)...)
}

// CollectionLinks always has "self" and adds "nextPage"/"previousPage" only
// when the page has one.
func CollectionLinks(r Resolver, route string, q PagedQuery, hasNext, hasPrevious bool) ([]Link, error) {
	kinds := []struct {
		kind UriType
		rel  string
		want bool
	}{
		{Current, "self", true},
		{NextPage, "nextPage", hasNext},
		{PreviousPage, "previousPage", hasPrevious},
	}

	var links []Link
	for _, k := range kinds {
		if !k.want {
			continue
		}
		href, err := PageURI(r, route, q, k.kind)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", k.rel, err)
		}
		links = append(links, Link{Href: href, Rel: k.rel, Method: "GET"})
	}
	return links, nil
}
