package handler

import (
	"net/http"

	"github.com/google/uuid"

	"courselibrary-backend/internal/shared/hateoas"
	"courselibrary-backend/internal/shared/routes"
)

// authorLinks is the fixed link list of one author. self keeps the
// requested fields so following it returns the same shape.
func authorLinks(r hateoas.Resolver, authorID uuid.UUID, fields string) ([]hateoas.Link, error) {
	id := routes.P("authorId", authorID.String())

	return hateoas.Build(r,
		hateoas.Template{Route: routes.GetAuthor, Rel: "self", Method: http.MethodGet, Params: []routes.Param{id, routes.P("fields", fields)}},
		hateoas.Template{Route: routes.CreateCourseForAuthor, Rel: "create_course_for_author", Method: http.MethodPost, Params: []routes.Param{id}},
		hateoas.Template{Route: routes.GetCoursesForAuthor, Rel: "courses", Method: http.MethodGet, Params: []routes.Param{id}},
	)
}
