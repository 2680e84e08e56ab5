package pagination

import (
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

// PagedResult is the uniform envelope for every paginated list response.
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

func New[T any](items []T, totalItems int64, currentPage, pageSize int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:       items,
		TotalItems:  totalItems,
		CurrentPage: currentPage,
		PageSize:    pageSize,
	}
}

// Validate rejects non-positive paging parameters before any store access.
// Pages are 1-based.
func Validate(page, pageSize int) *result.Error {
	if page <= 0 || pageSize <= 0 {
		return result.Failure("400", "Pagination parameters must be greater than zero")
	}
	return nil
}

// Range converts 1-based paging parameters into a LIMIT/OFFSET pair.
func Range(page, pageSize int) (limit, offset int) {
	return pageSize, (page - 1) * pageSize
}
