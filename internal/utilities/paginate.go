package utilities

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination reads page/limit query parameters with the listing defaults and
// returns them alongside the computed offset.
func Pagination(c *gin.Context) (page, limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
