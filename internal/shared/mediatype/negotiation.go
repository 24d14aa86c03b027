// Package mediatype resolves request media types against explicit dispatch
// tables before the handler runs.
package mediatype

import (
	"mime"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"courselibrary-backend/internal/shared/response"
)

const (
	JSON = "application/json"

	AuthorFriendly        = "application/vnd.marvin.author.friendly+json"
	Hateoas               = "application/vnd.marvin.hateoas+json"
	AuthorFriendlyHateoas = "application/vnd.marvin.author.friendly.hateoas+json"
	AuthorFull            = "application/vnd.marvin.author.full+json"
	AuthorFullHateoas     = "application/vnd.marvin.author.full.hateoas+json"

	AuthorForCreation              = "application/vnd.marvin.authorforcreation+json"
	AuthorForCreationWithDateDeath = "application/vnd.marvin.authorforcreationwithdateofdeath+json"

	JSONPatch = "application/json-patch+json"
)

const (
	acceptKey      = "mediatype.accept"
	acceptValueKey = "mediatype.accept.value"
	contentKey     = "mediatype.content"
	contentValKey  = "mediatype.content.value"
)

type entry[V any] struct {
	mediaType string
	value     V
}

// Table maps media types to what a handler should do with them.
// Order matters for Accept: the first entry wins for "*/*" or a missing header.
type Table[V any] struct {
	entries []entry[V]
}

func NewTable[V any]() *Table[V] {
	return &Table[V]{}
}

func (t *Table[V]) Add(value V, mediaTypes ...string) *Table[V] {
	for _, mt := range mediaTypes {
		t.entries = append(t.entries, entry[V]{mediaType: strings.ToLower(mt), value: value})
	}
	return t
}

func (t *Table[V]) get(mediaType string) (V, bool) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, e := range t.entries {
		if e.mediaType == mediaType {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Accept picks the representation from the Accept header and stores it on
// the context. Ranges are tried by descending q, ties in header order; each
// must name a table entry exactly, ignoring case and parameters. "*/*" and a
// missing header take the first entry. Anything else gets 406.
func Accept[V any](t *Table[V]) gin.HandlerFunc {
	return func(c *gin.Context) {
		selected, ok := t.negotiate(c.Request.Header.Values("Accept"))
		if !ok {
			response.NotAcceptable(c)
			c.Abort()
			return
		}

		value, _ := t.get(selected)
		c.Set(acceptKey, selected)
		c.Set(acceptValueKey, value)
		c.Next()
	}
}

type acceptRange struct {
	mediaType string
	q         float64
}

// parseAccept drops malformed ranges and ranges with q=0.
func parseAccept(headers []string) []acceptRange {
	var ranges []acceptRange
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			mt, params, err := mime.ParseMediaType(part)
			if err != nil {
				continue
			}

			q := 1.0
			if raw, ok := params["q"]; ok {
				q, err = strconv.ParseFloat(raw, 64)
				if err != nil || q < 0 || q > 1 {
					continue
				}
			}
			if q == 0 {
				continue
			}
			ranges = append(ranges, acceptRange{mediaType: mt, q: q})
		}
	}

	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].q > ranges[j].q })
	return ranges
}

func (t *Table[V]) negotiate(headers []string) (string, bool) {
	if len(t.entries) == 0 {
		return "", false
	}

	blank := true
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			blank = false
		}
	}
	if blank {
		return t.entries[0].mediaType, true
	}

	for _, r := range parseAccept(headers) {
		switch {
		case r.mediaType == "*/*":
			return t.entries[0].mediaType, true
		case strings.HasSuffix(r.mediaType, "/*"):
			prefix := strings.TrimSuffix(r.mediaType, "*")
			for _, e := range t.entries {
				if strings.HasPrefix(e.mediaType, prefix) {
					return e.mediaType, true
				}
			}
		default:
			if _, ok := t.get(r.mediaType); ok {
				return r.mediaType, true
			}
		}
	}
	return "", false
}

// ContentType picks the input variant from the Content-Type header.
// Unsupported values get 415.
func ContentType[V any](t *Table[V]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := c.ContentType()
		value, ok := t.get(ct)
		if !ok {
			response.UnsupportedMediaType(c, ct)
			c.Abort()
			return
		}

		c.Set(contentKey, strings.ToLower(ct))
		c.Set(contentValKey, value)
		c.Next()
	}
}

// Accepted returns the media type and value chosen by Accept.
func Accepted[V any](c *gin.Context) (string, V) {
	return c.GetString(acceptKey), valueOf[V](c, acceptValueKey)
}

// Consumed returns the media type and value chosen by ContentType.
func Consumed[V any](c *gin.Context) (string, V) {
	return c.GetString(contentKey), valueOf[V](c, contentValKey)
}

func valueOf[V any](c *gin.Context, key string) V {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(V); ok {
			return typed
		}
	}
	var zero V
	return zero
}
