package shared

import "math"

// PageSize is the fixed number of items per page for listing and user lookups
const PageSize = 5

// MaxPage is the highest page whose offset still fits in an int. Pages past
// it are clamped, which lands beyond any real result set.
const MaxPage = math.MaxInt / PageSize

// Page is a 1-based page request
type Page struct {
	Number int
}

// NewPage normalizes a page number; anything below 1 becomes the first page
// and anything above MaxPage becomes MaxPage
func NewPage(number int) Page {
	return Page{Number: clampPage(number)}
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (clampPage(p.Number) - 1) * PageSize
}

func clampPage(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxPage:
		return MaxPage
	}
	return n
}

// Limit returns the page size
func (p Page) Limit() int {
	return PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page Page) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(total) / PageSize
	if int(total)%PageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       NewPage(page.Number).Number,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}
}

// MapPaginated converts the items of a page while keeping its counters
func MapPaginated[T, U any](p Paginated[T], fn func(T) U) Paginated[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Paginated[U]{
		Items:      out,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}
