package store

// PageParams selects one page of a result set. Page is 1-based.
type PageParams struct {
	Page int
	Size int
}

// Normalize clamps Page to at least 1 and Size to at least 1.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 1
	}
	return p
}

// Skip is the number of matches before this page.
func (p PageParams) Skip() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Size
}

// PagedResult is one page of matches plus totals for the pagination envelope.
type PagedResult[T any] struct {
	Items      []*T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// HasMore reports whether later pages exist.
func (r *PagedResult[T]) HasMore() bool {
	return r.Page < r.TotalPages
}

// paginate slices matches for p. A zero Size returns everything as a single page.
func paginate[T any](matches []*T, p PageParams) *PagedResult[T] {
	total := len(matches)
	if p.Size == 0 {
		return &PagedResult[T]{Items: matches, Total: total, Page: 1, PageSize: total, TotalPages: 1}
	}

	p = p.Normalize()
	start := min(p.Skip(), total)
	end := min(start+p.Size, total)

	return &PagedResult[T]{
		Items:      matches[start:end],
		Total:      total,
		Page:       p.Page,
		PageSize:   p.Size,
		TotalPages: (total + p.Size - 1) / p.Size,
	}
}
