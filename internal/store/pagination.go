package store

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest contains offset pagination request parameters.
type PageRequest struct {
	Page int // Zero-based page index
	Size int // Items per page (defaults to 20 with a maximum of 100)
}

// DefaultPageRequest returns sensible defaults.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, Size: defaultPageSize}
}

// Validate checks and corrects pagination parameters.
func (p *PageRequest) Validate() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
}

// Offset returns the row offset for this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page contains one page of results plus the request echoed back,
// so callers can compute total pages.
type Page[T any] struct {
	Items         []T `json:"items"`
	TotalElements int `json:"total_elements"` // Count matching the filter ignoring pagination
	PageIndex     int `json:"page"`
	PageSize      int `json:"size"`
}

// NewPage builds a page result. Items is never nil in the response.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:         items,
		TotalElements: total,
		PageIndex:     req.Page,
		PageSize:      req.Size,
	}
}
