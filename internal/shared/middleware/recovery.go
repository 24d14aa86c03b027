package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"courselibrary-backend/internal/shared/response"
)

// Recovery turns a panic into the generic 500 problem and logs what happened.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.InternalError(c, fmt.Errorf("panic: %v", err))
				c.Abort()
			}
		}()

		c.Next()
	}
}
