package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/repository"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
)

type CourseHandler struct {
	repos  *repository.Provider
	routes *routes.Table
}

func NewCourseHandler(repos *repository.Provider, table *routes.Table) *CourseHandler {
	return &CourseHandler{
		repos:  repos,
		routes: table,
	}
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/authors/:authorId/courses
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) GetCoursesForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	courses, err := repo.GetCourses(c.Request.Context(), authorID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, course.ToDtos(courses))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/authors/:authorId/courses/:courseId
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) GetCourseForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	existing, err := repo.GetCourse(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}

	response.OK(c, course.ToDto(*existing))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/authors/:authorId/courses
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) CreateCourseForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}

	var req course.CourseForCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "The request body is not a valid course.")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	entity := req.ToEntity()
	h.create(c, repo, authorID, &entity)
}

// ════════════════════════════════════════════════════════════════
// UPSERT: PUT /api/authors/:authorId/courses/:courseId
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) UpdateCourseForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}

	var req course.CourseForUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "The request body is not a valid course.")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	existing, err := repo.GetCourse(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if existing == nil {
		entity := req.ToEntity()
		entity.ID = courseID
		h.create(c, repo, authorID, &entity)
		return
	}

	req.ApplyTo(existing)
	h.update(c, repo, existing)
}

// ════════════════════════════════════════════════════════════════
// UPSERT: PATCH /api/authors/:authorId/courses/:courseId
// Body is an RFC 6902 JSON Patch against CourseForUpdate.
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) PartiallyUpdateCourseForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "The request body could not be read.")
		return
	}
	patch, err := jsonpatch.DecodePatch(body)
	if err != nil {
		response.BadRequest(c, "The request body is not a valid JSON Patch document.")
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	existing, err := repo.GetCourse(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	var target course.CourseForUpdate
	if existing != nil {
		target = course.ForUpdate(*existing)
	}

	patched, err := applyPatch(patch, target)
	if err != nil {
		response.ValidationFailed(c, validation.Errors{"patch": err})
		return
	}
	if err := patched.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if existing == nil {
		entity := patched.ToEntity()
		entity.ID = courseID
		h.create(c, repo, authorID, &entity)
		return
	}

	patched.ApplyTo(existing)
	h.update(c, repo, existing)
}

// applyPatch runs patch over the JSON form of target. Paths that do not
// exist on CourseForUpdate are rejected.
func applyPatch(patch jsonpatch.Patch, target course.CourseForUpdate) (course.CourseForUpdate, error) {
	doc, err := json.Marshal(target)
	if err != nil {
		return target, err
	}

	out, err := patch.Apply(doc)
	if err != nil {
		return target, err
	}

	var patched course.CourseForUpdate
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patched); err != nil {
		return target, fmt.Errorf("patched course is invalid: %w", err)
	}
	return patched, nil
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/authors/:authorId/courses/:courseId
// ════════════════════════════════════════════════════════════════

func (h *CourseHandler) DeleteCourseForAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}

	repo := h.repos.New()
	if !authorExists(c, repo, authorID) {
		return
	}

	existing, err := repo.GetCourse(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}

	if err := repo.DeleteCourse(existing); err != nil {
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

func (h *CourseHandler) create(c *gin.Context, repo repository.CourseLibraryRepository, authorID uuid.UUID, entity *course.Course) {
	if err := repo.AddCourse(authorID, entity); err != nil {
		response.InternalError(c, err)
		return
	}
	if !save(c, repo) {
		return
	}

	location, err := h.routes.Resolver(c).Link(routes.GetCourseForAuthor,
		routes.P("authorId", authorID.String()),
		routes.P("courseId", entity.ID.String()),
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, location, course.ToDto(*entity))
}

func (h *CourseHandler) update(c *gin.Context, repo repository.CourseLibraryRepository, entity *course.Course) {
	if err := repo.UpdateCourse(entity); err != nil {
		response.InternalError(c, err)
		return
	}
	if !save(c, repo) {
		return
	}

	response.NoContent(c)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("The value '%s' is not a valid %s.", c.Param(name), name))
		return uuid.Nil, false
	}
	return id, true
}

// authorExists answers 404 (or 500) itself and reports whether to go on.
func authorExists(c *gin.Context, repo repository.CourseLibraryRepository, authorID uuid.UUID) bool {
	exists, err := repo.AuthorExists(c.Request.Context(), authorID)
	if err != nil {
		response.InternalError(c, err)
		return false
	}
	if !exists {
		response.NotFound(c)
		return false
	}
	return true
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
