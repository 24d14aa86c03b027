// Package shaping projects resources down to a caller-chosen subset of fields.
//
// Each resource type declares its fields once, in order, through a Registry:
//
//	var AuthorFields = shaping.NewRegistry[AuthorDto]().
//		Field("id", func(a AuthorDto) any { return a.ID }).
//		Field("name", func(a AuthorDto) any { return a.Name })
//
// The registry then answers two questions for a "fields" query value:
// do all the requested fields exist (HasFields), and what does the shaped
// resource look like (Shape).
package shaping

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownField = errors.New("unknown field")

// Accessor reads one field off a resource.
type Accessor[T any] func(T) any

type field[T any] struct {
	name string
	get  Accessor[T]
}

// Registry is the ordered field table of one resource type.
// Build it at package init and treat it as read-only afterwards.
type Registry[T any] struct {
	fields []field[T]
	index  map[string]int
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{index: make(map[string]int)}
}

// Field appends a field. Names are matched case-insensitively, so registering
// two names that differ only by case panics.
func (r *Registry[T]) Field(name string, get Accessor[T]) *Registry[T] {
	key := strings.ToLower(name)
	if _, dup := r.index[key]; dup {
		panic(fmt.Sprintf("shaping: field %q registered twice", name))
	}

	r.index[key] = len(r.fields)
	r.fields = append(r.fields, field[T]{name: name, get: get})
	return r
}

// Names returns the declared field names in declaration order.
func (r *Registry[T]) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

// HasFields reports whether every field in the comma separated list exists.
// An empty list means "all fields" and is always valid.
func (r *Registry[T]) HasFields(fields string) bool {
	if strings.TrimSpace(fields) == "" {
		return true
	}

	for _, name := range splitFields(fields) {
		if _, ok := r.lookup(name); !ok {
			return false
		}
	}
	return true
}

// Shape projects src to the requested fields, in request order.
// With an empty list every field is returned in declaration order.
// Callers are expected to have screened the list with HasFields; an unknown
// field still yields an error wrapping ErrUnknownField.
func (r *Registry[T]) Shape(src T, fields string) (*Object, error) {
	obj := NewObject()

	if strings.TrimSpace(fields) == "" {
		for _, f := range r.fields {
			obj.Set(f.name, f.get(src))
		}
		return obj, nil
	}

	for _, name := range splitFields(fields) {
		f, ok := r.lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		obj.Set(f.name, f.get(src))
	}
	return obj, nil
}

// ShapeAll shapes every element of src with the same field list.
func (r *Registry[T]) ShapeAll(src []T, fields string) ([]*Object, error) {
	out := make([]*Object, 0, len(src))
	for _, item := range src {
		obj, err := r.Shape(item, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func (r *Registry[T]) lookup(name string) (field[T], bool) {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return field[T]{}, false
	}
	return r.fields[i], true
}

// splitFields splits on commas, trims each entry and drops anything after the
// first space, so a reused order-by value like "name desc" still resolves to "name".
// Empty entries are kept and fail the lookup.
func splitFields(fields string) []string {
	parts := strings.Split(fields, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		name := strings.TrimSpace(p)
		if i := strings.IndexByte(name, ' '); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}
