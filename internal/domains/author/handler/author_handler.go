package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/repository"
	"courselibrary-backend/internal/shared/hateoas"
	"courselibrary-backend/internal/shared/mediatype"
	"courselibrary-backend/internal/shared/pagination"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
	"courselibrary-backend/internal/shared/shaping"
	"courselibrary-backend/internal/shared/sorting"
)

const (
	PaginationHeader = "X-Pagination"
	AllowedMethods   = "GET,HEAD,POST,OPTIONS"
)

// Options bounds collection paging.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

type AuthorHandler struct {
	repos   *repository.Provider
	routes  *routes.Table
	options Options
	now     func() time.Time
}

func NewAuthorHandler(repos *repository.Provider, table *routes.Table, opts Options) *AuthorHandler {
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = pagination.MaxPageSize
	}
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = pagination.DefaultPageSize
	}

	return &AuthorHandler{
		repos:   repos,
		routes:  table,
		options: opts,
		now:     time.Now,
	}
}

// linkedCollection is the body of GET /api/authors.
type linkedCollection struct {
	Value []*shaping.Object `json:"value"`
	Links []hateoas.Link    `json:"links"`
}

// ════════════════════════════════════════════════════════════════
// READ: GET|HEAD /api/authors?mainCategory=&searchQuery=&orderBy=&pageNumber=&pageSize=&fields=
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAuthors(c *gin.Context) {
	var params author.ResourceParameters
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "The query string could not be parsed.")
		return
	}
	params = params.Normalize(h.options.DefaultPageSize, h.options.MaxPageSize)

	if !author.PropertyMapping.ValidMappingExistsFor(params.OrderBy) {
		response.BadRequest(c, fmt.Sprintf("The order by clause '%s' names a field that cannot be sorted on.", params.OrderBy))
		return
	}

	if !author.FriendlyFields.HasFields(params.Fields) {
		response.BadRequest(c, shapingDetail(params.Fields))
		return
	}

	steps, err := sorting.Translate(params.OrderBy, author.PropertyMapping)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	page, err := h.repos.New().GetAuthors(c.Request.Context(), repository.AuthorQuery{
		MainCategory: params.MainCategory,
		SearchQuery:  params.SearchQuery,
		OrderBy:      steps,
		Page:         params.Paging(),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}

	metadata, err := json.Marshal(page.Metadata())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Header(PaginationHeader, string(metadata))

	resolver := h.routes.Resolver(c)
	links, err := hateoas.CollectionLinks(resolver, routes.GetAuthors, params, page.HasNext(), page.HasPrevious())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	value, err := author.FriendlyFields.ShapeAll(author.ToDtos(page.Items, h.now()), params.Fields)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	for i, a := range page.Items {
		itemLinks, err := authorLinks(resolver, a.ID, "")
		if err != nil {
			response.InternalError(c, err)
			return
		}
		value[i].Set("links", itemLinks)
	}

	response.OK(c, linkedCollection{Value: value, Links: links})
}

// ════════════════════════════════════════════════════════════════
// OPTIONS /api/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAuthorsOptions(c *gin.Context) {
	c.Header("Allow", AllowedMethods)
	c.Status(http.StatusOK)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/authors/:authorId?fields=
// The representation was picked from Accept by mediatype.Accept.
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	mediaType, rep := mediatype.Accepted[Representation](c)

	authorID, ok := pathID(c)
	if !ok {
		return
	}

	fields := c.Query("fields")
	if !h.hasFields(rep, fields) {
		response.BadRequest(c, shapingDetail(fields))
		return
	}

	a, err := h.repos.New().GetAuthor(c.Request.Context(), authorID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}

	var obj *shaping.Object
	if rep.Full {
		obj, err = author.FullFields.Shape(author.ToFullDto(*a), fields)
	} else {
		obj, err = author.FriendlyFields.Shape(author.ToDto(*a, h.now()), fields)
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if rep.Links {
		links, err := authorLinks(h.routes.Resolver(c), a.ID, fields)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		obj.Set("links", links)
	}

	response.JSON(c, http.StatusOK, mediaType, obj)
}

func (h *AuthorHandler) hasFields(rep Representation, fields string) bool {
	if rep.Full {
		return author.FullFields.HasFields(fields)
	}
	return author.FriendlyFields.HasFields(fields)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/authors
// The body variant was picked from Content-Type by mediatype.ContentType.
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	_, input := mediatype.Consumed[CreationInput](c)

	var entity author.Author
	switch input {
	case WithDateOfDeath:
		var req author.AuthorForCreationWithDateOfDeath
		if !bindAndValidate(c, &req) {
			return
		}
		entity = req.ToEntity()
	default:
		var req author.AuthorForCreation
		if !bindAndValidate(c, &req) {
			return
		}
		entity = req.ToEntity()
	}

	repo := h.repos.New()
	if err := repo.AddAuthor(&entity); err != nil {
		response.InternalError(c, err)
		return
	}
	if !save(c, repo) {
		return
	}

	resolver := h.routes.Resolver(c)
	obj, err := author.FriendlyFields.Shape(author.ToDto(entity, h.now()), "")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	links, err := authorLinks(resolver, entity.ID, "")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	obj.Set("links", links)

	location, err := resolver.Link(routes.GetAuthor, routes.P("authorId", entity.ID.String()))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, location, obj)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/authors/:authorId
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	repo := h.repos.New()
	a, err := repo.GetAuthor(c.Request.Context(), authorID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}

	if err := repo.DeleteAuthor(a); err != nil {
		response.InternalError(c, err)
		return
	}
	if !save(c, repo) {
		return
	}

	response.NoContent(c)
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

type validatable interface {
	Validate() error
}

// bindAndValidate answers 400 for a body that is not JSON and 422 for one
// that breaks a rule.
func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "The request body is not a valid author.")
		return false
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return false
	}
	return true
}

func shapingDetail(fields string) string {
	return "Not all requested data shaping fields exist on the resource: " + fields
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("authorId")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("The value '%s' is not a valid authorId.", raw))
		return uuid.Nil, false
	}
	return id, true
}

func save(c *gin.Context, repo repository.CourseLibraryRepository) bool {
	if _, err := repo.Save(c.Request.Context()); err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			response.Conflict(c, "The change conflicts with existing data.")
			return false
		}
		response.InternalError(c, err)
		return false
	}
	return true
}
