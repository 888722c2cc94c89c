package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"padron-agremiados/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. Requests declaring a larger
// Content-Length are refused up front; the rest are read through
// http.MaxBytesReader so handlers see *http.MaxBytesError on overflow.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
