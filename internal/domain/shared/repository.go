package shared

// Listing page sizes. Shop grids use DefaultGridPageSize, admin tables use
// DefaultPageSize.
const (
	DefaultPageSize     = 20
	DefaultGridPageSize = 24
	MaxPageSize         = 100
)

// Filter narrows a repository listing
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// NormalizePage turns client paging input into a 1-based page and a size in
// [1, MaxPageSize], using defaultSize when none was given.
func NormalizePage(page, size, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	return page, min(size, MaxPageSize)
}

// PageOffset returns the row offset of a 1-based page
func PageOffset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	return (page - 1) * size
}

// Paginated is one page of a listing
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// NewPaginated wraps items as page of total
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	p := Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	p.HasNext = page < p.TotalPages
	return p
}
