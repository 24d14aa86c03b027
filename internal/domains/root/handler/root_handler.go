package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courselibrary-backend/internal/shared/hateoas"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
)

type RootHandler struct {
	routes *routes.Table
}

func NewRootHandler(table *routes.Table) *RootHandler {
	return &RootHandler{routes: table}
}

// GetRoot - GET /api is the entry point of the API: links to everything a
// client can start from.
func (h *RootHandler) GetRoot(c *gin.Context) {
	links, err := hateoas.Build(h.routes.Resolver(c),
		hateoas.Template{Route: routes.GetRoot, Rel: "self", Method: http.MethodGet},
		hateoas.Template{Route: routes.GetAuthors, Rel: "authors", Method: http.MethodGet},
		hateoas.Template{Route: routes.CreateAuthor, Rel: "create_author", Method: http.MethodPost},
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, links)
}
