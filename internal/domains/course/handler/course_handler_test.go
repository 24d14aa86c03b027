package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courselibrary-backend/internal/domains/course"
	"courselibrary-backend/internal/repository"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
)

const (
	berryID  = "d28888e9-2ba9-473a-a40f-e38cb54f9b35"
	eliID    = "2902b665-1190-4c70-9915-b9c2d7680450"
	mutinyID = "d8663e5e-7494-4f81-8739-6e0de1bea7ee"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) http.Handler {
	t.Helper()

	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store))
	provider := repository.NewProvider(store, nil, 0)

	table := routes.NewTable()
	h := NewCourseHandler(provider, table)
	table.Handle(routes.GetCoursesForAuthor, http.MethodGet, "/api/authors/:authorId/courses", h.GetCoursesForAuthor)
	table.Handle(routes.GetCourseForAuthor, http.MethodGet, "/api/authors/:authorId/courses/:courseId", h.GetCourseForAuthor)
	table.Handle(routes.CreateCourseForAuthor, http.MethodPost, "/api/authors/:authorId/courses", h.CreateCourseForAuthor)
	table.Handle(routes.UpdateCourseForAuthor, http.MethodPut, "/api/authors/:authorId/courses/:courseId", h.UpdateCourseForAuthor)
	table.Handle(routes.PartiallyUpdateCourseForAuthor, http.MethodPatch, "/api/authors/:authorId/courses/:courseId", h.PartiallyUpdateCourseForAuthor)
	table.Handle(routes.DeleteCourseForAuthor, http.MethodDelete, "/api/authors/:authorId/courses/:courseId", h.DeleteCourseForAuthor)

	engine := gin.New()
	table.Register(engine)
	return engine
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Host = "library.test"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func coursesPath(authorID string) string {
	return "/api/authors/" + authorID + "/courses"
}

func TestGetCoursesForAuthor(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodGet, coursesPath(berryID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []course.CourseDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Commandeering a Ship Without Getting Caught", got[0].Title)
	assert.Equal(t, "Overthrowing Mutiny", got[1].Title)
	assert.Equal(t, berryID, got[0].AuthorID.String())
}

func TestGetCoursesForAuthor_Errors(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodGet, coursesPath(uuid.NewString()), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(srv, http.MethodGet, coursesPath("not-a-guid"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ProblemContentType, w.Header().Get("Content-Type"))
}

func TestGetCourseForAuthor_WrongAuthorIsNotFound(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodGet, coursesPath(berryID)+"/"+mutinyID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(srv, http.MethodGet, coursesPath(eliID)+"/"+mutinyID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCourseForAuthor(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodPost, coursesPath(eliID), `{"title":"Sea Shanties","description":"Loudly."}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created course.CourseDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, eliID, created.AuthorID.String())
	assert.Equal(t, "http://library.test"+coursesPath(eliID)+"/"+created.ID.String(), w.Header().Get("Location"))

	w = do(srv, http.MethodGet, coursesPath(eliID)+"/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCourseForAuthor_Validation(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodPost, coursesPath(eliID), `{"title":"Same","description":"Same"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var problem response.ValidationProblem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, []string{"The provided description should be different from the title."}, problem.Errors["course"])

	w = do(srv, http.MethodPost, coursesPath(eliID), `{"description":"No title"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, []string{"You should fill out a title."}, problem.Errors["title"])

	problem = response.ValidationProblem{}
	w = do(srv, http.MethodPost, coursesPath(eliID), `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Contains(t, problem.Errors, "title")
	assert.NotContains(t, problem.Errors, "course")

	w = do(srv, http.MethodPost, coursesPath(eliID), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCourseForAuthor_Upsert(t *testing.T) {
	srv := newServer(t)
	newID := uuid.NewString()

	w := do(srv, http.MethodPut, coursesPath(berryID)+"/"+newID, `{"title":"Rigging","description":"Ropes and more ropes."}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created course.CourseDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, newID, created.ID.String())

	w = do(srv, http.MethodPut, coursesPath(berryID)+"/"+newID, `{"title":"Rigging II","description":"Even more ropes."}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(srv, http.MethodGet, coursesPath(berryID)+"/"+newID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rigging II")
}

func TestUpdateCourseForAuthor_DescriptionRequired(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodPut, coursesPath(berryID)+"/"+mutinyID, `{"title":"Only a title"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "You should fill out a description.")
}

func TestUpdateCourseForAuthor_IDOwnedByAnotherAuthor(t *testing.T) {
	srv := newServer(t)

	w := do(srv, http.MethodPut, coursesPath(eliID)+"/"+mutinyID, `{"title":"Stolen","description":"Not yours."}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPartiallyUpdateCourseForAuthor(t *testing.T) {
	srv := newServer(t)
	path := coursesPath(berryID) + "/" + mutinyID

	w := do(srv, http.MethodPatch, path, `[{"op":"replace","path":"/title","value":"Mutiny, Overthrown"}]`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(srv, http.MethodGet, path, "")
	var got course.CourseDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Mutiny, Overthrown", got.Title)
	assert.True(t, strings.HasPrefix(got.Description, "In this course, the author"))
}

func TestPartiallyUpdateCourseForAuthor_UpsertAndErrors(t *testing.T) {
	srv := newServer(t)
	newID := uuid.NewString()

	w := do(srv, http.MethodPatch, coursesPath(berryID)+"/"+newID,
		`[{"op":"replace","path":"/title","value":"Parrots"},{"op":"replace","path":"/description","value":"Talking ones."}]`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Location"), newID)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not a patch document", `{"title":"x"}`, http.StatusBadRequest},
		{"title removed", `[{"op":"remove","path":"/title"}]`, http.StatusUnprocessableEntity},
		{"unknown property", `[{"op":"add","path":"/price","value":3}]`, http.StatusUnprocessableEntity},
		{"failed test op", `[{"op":"test","path":"/title","value":"nope"}]`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(srv, http.MethodPatch, coursesPath(berryID)+"/"+mutinyID, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestDeleteCourseForAuthor(t *testing.T) {
	srv := newServer(t)
	path := coursesPath(berryID) + "/" + mutinyID

	w := do(srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
