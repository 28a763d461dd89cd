// Package pagination normalizes page requests against configured bounds
// and wraps result pages with their totals.
package pagination

import (
	"github.com/mwhitfield/bursar/pkg/query"
)

// PageRequest represents a request for a page of data with optional search
// and sorting.
type PageRequest struct {
	Page     int
	PageSize int
	Search   *string
	Sort     []query.SortField
}

// NewPageRequest builds a normalized page request from raw flag values.
// Sort is a comma-separated field list; a "-" prefix sorts descending.
func NewPageRequest(page, pageSize int, search, sort string, cfg Config) PageRequest {
	var s *string
	if search != "" {
		s = &search
	}

	req := PageRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   s,
		Sort:     query.ParseSortFields(sort),
	}

	req.Normalize(cfg)
	return req
}

// Normalize adjusts the request to ensure valid pagination values based on the config.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
