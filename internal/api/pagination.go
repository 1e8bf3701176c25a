package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination holds the normalized page query parameters.
type pagination struct {
	Page     int
	PageSize int
}

// Offset converts the page number into a row offset.
func (p pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parsePagination reads ?page= and ?page_size= from the query string.
// Out-of-range values are clamped rather than rejected.
func parsePagination(c *gin.Context) pagination {
	p := pagination{Page: 1, PageSize: defaultPageSize}

	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.Page = v
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			if v > maxPageSize {
				v = maxPageSize
			}
			p.PageSize = v
		}
	}
	return p
}
