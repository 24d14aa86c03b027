package response

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ProblemContentType = "application/problem+json; charset=utf-8"

	ValidationProblemType   = "https://courselibrary.com/modelvalidationproblem"
	ValidationProblemTitle  = "One or more validation errors occurred."
	ValidationProblemDetail = "See the errors field for details."

	FaultDetail = "An unexpected fault happened. Try again later."
)

// Problem is an RFC 7807 problem description.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId,omitempty"`
}

// ValidationProblem adds field-keyed messages to a Problem.
type ValidationProblem struct {
	Problem
	Errors map[string][]string `json:"errors"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:           "https://tools.ietf.org/html/rfc7231#section-6.5.1",
	http.StatusNotFound:             "https://tools.ietf.org/html/rfc7231#section-6.5.4",
	http.StatusMethodNotAllowed:     "https://tools.ietf.org/html/rfc7231#section-6.5.5",
	http.StatusNotAcceptable:        "https://tools.ietf.org/html/rfc7231#section-6.5.6",
	http.StatusConflict:             "https://tools.ietf.org/html/rfc7231#section-6.5.8",
	http.StatusUnsupportedMediaType: "https://tools.ietf.org/html/rfc7231#section-6.5.13",
	http.StatusUnprocessableEntity:  "https://tools.ietf.org/html/rfc4918#section-11.2",
	http.StatusInternalServerError:  "https://tools.ietf.org/html/rfc7231#section-6.6.1",
}

func NewProblem(c *gin.Context, status int, detail string) Problem {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
		TraceID:  c.GetString("request_id"),
	}
}

// ========================================
// SUCCESS RESPONSES
// ========================================

// JSON writes body with an explicit media type, e.g. a vendor type picked by
// content negotiation. An empty contentType falls back to application/json.
func JSON(c *gin.Context, status int, contentType string, body interface{}) {
	if contentType != "" {
		c.Header("Content-Type", contentType+"; charset=utf-8")
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, body interface{}) {
	JSON(c, http.StatusOK, "", body)
}

// Created answers 201 with a Location header pointing at the new resource.
func Created(c *gin.Context, location string, body interface{}) {
	c.Header("Location", location)
	JSON(c, http.StatusCreated, "", body)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ========================================
// ERROR RESPONSES
// ========================================

func WriteProblem(c *gin.Context, p interface{}, status int) {
	c.Header("Content-Type", ProblemContentType)
	c.JSON(status, p)
}

func ProblemWithDetail(c *gin.Context, status int, detail string) {
	WriteProblem(c, NewProblem(c, status, detail), status)
}

func BadRequest(c *gin.Context, detail string) {
	ProblemWithDetail(c, http.StatusBadRequest, detail)
}

func NotFound(c *gin.Context) {
	ProblemWithDetail(c, http.StatusNotFound, "")
}

func NotAcceptable(c *gin.Context) {
	ProblemWithDetail(c, http.StatusNotAcceptable,
		"The Accept header does not match any supported media type.")
}

func UnsupportedMediaType(c *gin.Context, contentType string) {
	ProblemWithDetail(c, http.StatusUnsupportedMediaType,
		"Content type '"+contentType+"' is not supported.")
}

func Conflict(c *gin.Context, detail string) {
	ProblemWithDetail(c, http.StatusConflict, detail)
}

// InternalError logs the cause and answers with the generic fault text only.
func InternalError(c *gin.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")

	ProblemWithDetail(c, http.StatusInternalServerError, FaultDetail)
}

// ValidationFailed answers 422 with the field-keyed messages of err.
// Internal validation errors are not the client's fault and become 500.
func ValidationFailed(c *gin.Context, err error) {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		InternalError(c, err)
		return
	}

	p := ValidationProblem{
		Problem: NewProblem(c, http.StatusUnprocessableEntity, ValidationProblemDetail),
		Errors:  FieldErrors(err),
	}
	p.Type = ValidationProblemType
	p.Title = ValidationProblemTitle

	WriteProblem(c, p, http.StatusUnprocessableEntity)
}

// FieldErrors flattens nested ozzo errors into "courses[0].title" style keys.
// A plain error is reported under the empty key.
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)

	var errs validation.Errors
	if errors.As(err, &errs) {
		flatten(out, "", errs)
	} else if err != nil {
		out[""] = []string{err.Error()}
	}
	return out
}

func flatten(out map[string][]string, prefix string, errs validation.Errors) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		err := errs[k]
		if err == nil {
			continue
		}

		key := joinKey(prefix, k)

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(out, key, nested)
			continue
		}
		out[key] = append(out[key], err.Error())
	}
}

func joinKey(prefix, key string) string {
	if isIndex(key) {
		return prefix + "[" + key + "]"
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func isIndex(key string) bool {
	return key != "" && strings.IndexFunc(key, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
