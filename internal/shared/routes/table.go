// Package routes holds the explicit route table of the API.
//
// Every route is registered once at startup with a name, and the same table
// later turns a route name plus parameters back into an absolute URL for
// hypermedia links and Location headers.
package routes

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Route names used for link generation.
const (
	GetRoot                        = "GetRoot"
	GetAuthors                     = "GetAuthors"
	GetAuthor                      = "GetAuthor"
	CreateAuthor                   = "CreateAuthor"
	DeleteAuthor                   = "DeleteAuthor"
	GetAuthorCollection            = "GetAuthorCollection"
	CreateAuthorCollection         = "CreateAuthorCollection"
	GetCoursesForAuthor            = "GetCoursesForAuthor"
	GetCourseForAuthor             = "GetCourseForAuthor"
	CreateCourseForAuthor          = "CreateCourseForAuthor"
	UpdateCourseForAuthor          = "UpdateCourseForAuthor"
	PartiallyUpdateCourseForAuthor = "PartiallyUpdateCourseForAuthor"
	DeleteCourseForAuthor          = "DeleteCourseForAuthor"
)

var ErrUnknownRoute = errors.New("unknown route")

// Param is one route value. Keys matching a ":key" path segment fill it,
// the rest become query parameters in the order given. Empty values are dropped.
type Param struct {
	Key   string
	Value string
}

func P(key, value string) Param {
	return Param{Key: key, Value: value}
}

// Route is one entry of the table. Name may be empty for routes that are
// never linked to (HEAD, OPTIONS).
type Route struct {
	Name     string
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

type Table struct {
	routes  []Route
	byName  map[string]Route
	trusted []netip.Prefix
}

func NewTable() *Table {
	return &Table{byName: make(map[string]Route)}
}

// Handle adds a route. It panics on a duplicate name since the table is
// built once at startup.
func (t *Table) Handle(name, method, path string, handlers ...gin.HandlerFunc) {
	r := Route{Name: name, Method: method, Path: path, Handlers: handlers}
	if name != "" {
		if _, dup := t.byName[name]; dup {
			panic(fmt.Sprintf("routes: duplicate route name %q", name))
		}
		t.byName[name] = r
	}
	t.routes = append(t.routes, r)
}

// Register mounts every route on the engine.
func (t *Table) Register(engine gin.IRoutes) {
	for _, r := range t.routes {
		engine.Handle(r.Method, r.Path, r.Handlers...)
	}
}

func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Path expands a named route into a relative URL with its query string.
func (t *Table) Path(name string, params ...Param) (string, error) {
	r, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	used := make(map[string]bool, len(params))
	segments := strings.Split(r.Path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") && !strings.HasPrefix(seg, "*") {
			continue
		}
		key := seg[1:]
		value, found := lookup(params, key)
		if !found || value == "" {
			return "", fmt.Errorf("route %q: missing value for %q", name, key)
		}
		segments[i] = escapeSegment(value)
		used[key] = true
	}

	var query []string
	for _, p := range params {
		if used[p.Key] || p.Value == "" {
			continue
		}
		query = append(query, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}

	path := strings.Join(segments, "/")
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}
	return path, nil
}

func lookup(params []Param, key string) (string, bool) {
	for _, p := range params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Parentheses and commas are legal in a path segment and carry the
// "(id1,id2)" collection syntax, so they stay readable.
var segmentUnescaper = strings.NewReplacer("%28", "(", "%29", ")", "%2C", ",")

func escapeSegment(v string) string {
	return segmentUnescaper.Replace(url.PathEscape(v))
}
