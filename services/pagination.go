package services

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageMeta is the pagination block returned next to every paginated list.
type PageMeta struct {
	CurrentPage     int   `json:"current_page"`
	TotalPages      int   `json:"total_pages"`
	TotalCount      int64 `json:"total_count"`
	PageSize        int   `json:"page_size"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// parsePageParams reads page/pageSize with bounds. Garbage falls back to
// defaults, pageSize is capped at maxPageSize to keep scans bounded.
func parsePageParams(c *fiber.Ctx) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p >= 1 {
		page = p
	}
	if s, err := strconv.Atoi(c.Query("pageSize")); err == nil && s >= 1 {
		pageSize = s
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

// newPageMeta computes the metadata for a page over total matching rows.
// Out-of-range pages yield an empty page with truthful totals, not an error.
func newPageMeta(page, pageSize int, total int64) PageMeta {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return PageMeta{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalCount:      total,
		PageSize:        pageSize,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
