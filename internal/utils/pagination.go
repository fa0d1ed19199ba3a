package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/constants"
)

// PaginationParams holds the pagination parameters. The zero value means
// "return everything".
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Enabled reports whether the request asked for a page.
func (p PaginationParams) Enabled() bool {
	return p.Limit > 0
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. Requests without page and limit are not paginated.
func GetPaginationParams(c *gin.Context) PaginationParams {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	// Keep the offset representable; such a page is simply empty.
	if page-1 > math.MaxInt32/limit {
		page = math.MaxInt32/limit + 1
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}
