package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var multipartOverhead = int64(8 * 1024) // rough padding

// SizeLimit caps the request body at maxBodyBytes plus multipart framing.
// Reading past the cap yields http.MaxBytesError, which upload handlers
// translate into a client error.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)
		c.Next()
	}
}
