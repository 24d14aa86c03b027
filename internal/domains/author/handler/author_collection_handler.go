package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/author"
	"courselibrary-backend/internal/repository"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
)

// ════════════════════════════════════════════════════════════════
// READ: GET /api/authorcollections/(id1,id2,...)
// All or nothing: one unknown id makes the whole request 404.
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAuthorCollection(c *gin.Context) {
	raw := c.Param("authorIds")
	if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
		response.NotFound(c)
		return
	}

	ids, err := ParseIDList(raw)
	if err != nil {
		response.BadRequest(c, "The author id list '"+raw+"' is not valid.")
		return
	}

	authors, err := h.repos.New().GetAuthorsByIDs(c.Request.Context(), ids)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, author.ToDtos(authors, h.now()))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/authorcollections
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) CreateAuthorCollection(c *gin.Context) {
	var reqs []author.AuthorForCreation
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.BadRequest(c, "The request body is not a valid author collection.")
		return
	}
	if err := author.ValidateCollection(reqs); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	repo := h.repos.New()
	entities := make([]author.Author, len(reqs))
	for i, req := range reqs {
		entities[i] = req.ToEntity()
		if err := repo.AddAuthor(&entities[i]); err != nil {
			response.InternalError(c, err)
			return
		}
	}
	if !save(c, repo) {
		return
	}

	ids := make([]uuid.UUID, len(entities))
	for i, a := range entities {
		ids[i] = a.ID
	}
	location, err := h.routes.Resolver(c).Link(routes.GetAuthorCollection,
		routes.P("authorIds", FormatIDList(ids)))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, location, author.ToDtos(entities, h.now()))
}

// ParseIDList reads the "(id1,id2)" path form. Blank entries are skipped;
// a list with no ids at all is an error.
func ParseIDList(raw string) ([]uuid.UUID, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "("), ")")

	var ids []uuid.UUID
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, author.ErrInvalidIDList
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, author.ErrInvalidIDList
	}
	return ids, nil
}

func FormatIDList(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
