package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base contract persistence adapters implement for an
// aggregate type.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// BranchRepository scopes reads to a single branch office. Cross-branch
// queries go through the unscoped Repository methods.
type BranchRepository[T any] interface {
	Repository[T]
	FindByIDForBranch(ctx context.Context, branchID, id uuid.UUID) (*T, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter Filter) ([]T, error)
}

// Filter carries pagination, ordering, and field filters for list
// queries.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter pages 20 at a time, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset converts page and page size into a row offset.
func (f Filter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

// Paginated is one page of results plus the totals needed to render
// pagination controls.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items with page arithmetic, rounding the page
// count up for a trailing partial page.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
