package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const cacheProfileKey = "cache_profile"

// CacheProfile describes the Cache-Control header of a response.
type CacheProfile struct {
	MaxAge         int // seconds
	Public         bool
	MustRevalidate bool
}

func (p CacheProfile) String() string {
	parts := []string{"private"}
	if p.Public {
		parts[0] = "public"
	}
	parts = append(parts, "max-age="+strconv.Itoa(p.MaxAge))
	if p.MustRevalidate {
		parts = append(parts, "must-revalidate")
	}
	return strings.Join(parts, ", ")
}

// CacheExpiration overrides the default profile for one route or group.
func CacheExpiration(p CacheProfile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cacheProfileKey, p)
		c.Next()
	}
}

// HTTPCacheHeaders adds Cache-Control, Vary and a strong ETag to successful
// GET/HEAD responses, and answers 304 when If-None-Match already matches.
// The body is buffered so the ETag can be computed before anything is sent.
func HTTPCacheHeaders(defaults CacheProfile) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer, status: http.StatusOK}
		c.Writer = bw

		defer func() {
			if p := recover(); p != nil {
				c.Writer = bw.ResponseWriter
				panic(p)
			}
		}()

		c.Next()
		c.Writer = bw.ResponseWriter

		profile := defaults
		if v, ok := c.Get(cacheProfileKey); ok {
			if p, ok := v.(CacheProfile); ok {
				profile = p
			}
		}

		body := bw.buf.Bytes()
		header := bw.Header()

		if bw.status == http.StatusOK {
			header.Set("Cache-Control", profile.String())
			header.Add("Vary", "Accept")

			if len(body) > 0 {
				sum := md5.Sum(body)
				etag := `"` + hex.EncodeToString(sum[:]) + `"`
				header.Set("ETag", etag)

				if etagMatches(c.GetHeader("If-None-Match"), etag) {
					header.Del("Content-Type")
					header.Del("Content-Length")
					bw.ResponseWriter.WriteHeader(http.StatusNotModified)
					bw.ResponseWriter.WriteHeaderNow()
					return
				}
			}
		}

		bw.ResponseWriter.WriteHeader(bw.status)
		if len(body) == 0 {
			bw.ResponseWriter.WriteHeaderNow()
			return
		}
		_, _ = bw.ResponseWriter.Write(body)
	}
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// bufferedWriter holds status and body until HTTPCacheHeaders flushes them.
type bufferedWriter struct {
	gin.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return w.buf.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.buf.Len() > 0
}
