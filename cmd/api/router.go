package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"courselibrary-backend/internal/domains/author/handler"
	"courselibrary-backend/internal/shared/mediatype"
	"courselibrary-backend/internal/shared/middleware"
	"courselibrary-backend/internal/shared/response"
	"courselibrary-backend/internal/shared/routes"
	"courselibrary-backend/pkg/container"
	"courselibrary-backend/pkg/logger"
)

// patchContentTypes accepts RFC 6902 documents, also when sent as plain JSON.
var patchContentTypes = mediatype.NewTable[struct{}]().
	Add(struct{}{}, mediatype.JSONPatch, mediatype.JSON)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	// ClientIP in the access log follows the same proxy list as link building.
	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		logger.Warn("Invalid trusted proxies", map[string]interface{}{"error": err.Error()})
	}
	router.NoRoute(response.NotFound)
	router.NoMethod(func(ctx *gin.Context) {
		response.ProblemWithDetail(ctx, http.StatusMethodNotAllowed, "")
	})

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.HTTPCacheHeaders(middleware.CacheProfile{
			MaxAge:         c.Config.HTTPCache.MaxAge,
			MustRevalidate: true,
		}),
	)

	router.GET("/api/health", healthCheckHandler(c))

	t := c.Routes
	setupRootRoutes(t, c)
	setupAuthorRoutes(t, c)
	setupAuthorCollectionRoutes(t, c)
	setupCourseRoutes(t, c)
	t.Register(router)

	return router
}

// ========================================
// ROOT ROUTES
// ========================================
func setupRootRoutes(t *routes.Table, c *container.Container) {
	t.Handle(routes.GetRoot, http.MethodGet, "/api", c.RootHandler.GetRoot)
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(t *routes.Table, c *container.Container) {
	h := c.AuthorHandler

	t.Handle(routes.GetAuthors, http.MethodGet, "/api/authors", h.GetAuthors)
	t.Handle("", http.MethodHead, "/api/authors", h.GetAuthors)
	t.Handle("", http.MethodOptions, "/api/authors", h.GetAuthorsOptions)
	t.Handle(routes.CreateAuthor, http.MethodPost, "/api/authors",
		mediatype.ContentType(handler.CreationInputs), h.CreateAuthor)

	t.Handle(routes.GetAuthor, http.MethodGet, "/api/authors/:authorId",
		mediatype.Accept(handler.Representations), h.GetAuthor)
	t.Handle(routes.DeleteAuthor, http.MethodDelete, "/api/authors/:authorId", h.DeleteAuthor)
}

func setupAuthorCollectionRoutes(t *routes.Table, c *container.Container) {
	h := c.AuthorHandler

	t.Handle(routes.GetAuthorCollection, http.MethodGet, "/api/authorcollections/:authorIds", h.GetAuthorCollection)
	t.Handle(routes.CreateAuthorCollection, http.MethodPost, "/api/authorcollections", h.CreateAuthorCollection)
}

// ========================================
// COURSE ROUTES
// ========================================
func setupCourseRoutes(t *routes.Table, c *container.Container) {
	h := c.CourseHandler
	maxAge := c.Config.HTTPCache.MaxAge

	public := middleware.CacheExpiration(middleware.CacheProfile{MaxAge: maxAge, Public: true, MustRevalidate: true})
	single := middleware.CacheExpiration(middleware.CacheProfile{MaxAge: c.Config.HTTPCache.CourseMaxAge, Public: true})

	const (
		courses = "/api/authors/:authorId/courses"
		course  = courses + "/:courseId"
	)

	t.Handle(routes.GetCoursesForAuthor, http.MethodGet, courses, public, h.GetCoursesForAuthor)
	t.Handle(routes.CreateCourseForAuthor, http.MethodPost, courses, h.CreateCourseForAuthor)
	t.Handle(routes.GetCourseForAuthor, http.MethodGet, course, single, h.GetCourseForAuthor)
	t.Handle(routes.UpdateCourseForAuthor, http.MethodPut, course, h.UpdateCourseForAuthor)
	t.Handle(routes.PartiallyUpdateCourseForAuthor, http.MethodPatch, course,
		mediatype.ContentType(patchContentTypes), h.PartiallyUpdateCourseForAuthor)
	t.Handle(routes.DeleteCourseForAuthor, http.MethodDelete, course, h.DeleteCourseForAuthor)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		store, redis, healthy := appCtx.Health(ctx)

		status := "ok"
		statusCode := http.StatusOK
		if !healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services": gin.H{
				"store": store,
				"redis": redis,
			},
		}
		if stats := appCtx.PoolStats(); stats != nil {
			body["database"] = stats
		}
		c.JSON(statusCode, body)
	}
}
