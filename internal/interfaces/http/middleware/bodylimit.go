package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printshop/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that caps the request body size. Requests
// declaring a larger Content-Length are rejected up front; chunked requests
// are cut off by a MaxBytesReader once they exceed the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
