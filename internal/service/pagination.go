package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/RileyK05/basic-crm/internal/repository"
)

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 10

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ListQuery is a search term and requested page
type ListQuery struct {
	Search string
	Page   int
}

// ParsePage reads a page number. Anything that is not a positive integer is
// page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

type lister[T any] func(ctx context.Context, filters repository.ListFilters) ([]T, int, error)

// paginate runs list for the requested page, falling back to the last page
// when the request overshoots it.
func paginate[T any](ctx context.Context, q ListQuery, pageSize int, list lister[T]) ([]T, *PaginationInfo, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	filters := repository.ListFilters{Search: strings.TrimSpace(q.Search), Page: page, PageSize: pageSize}
	items, total, err := list(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	last := totalPages(total, pageSize)
	if page > last {
		filters.Page = last
		items, total, err = list(ctx, filters)
		if err != nil {
			return nil, nil, err
		}
		last = totalPages(total, pageSize)
	}

	return items, &PaginationInfo{
		Page:       filters.Page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: last,
	}, nil
}
