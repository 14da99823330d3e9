package pagination

const (
	// DefaultPageSize is used when the caller does not provide a size.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows a single page may return.
	MaxPageSize = 50
)

// Page holds zero-based offset pagination inputs.
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 0 and the size to [1, MaxPageSize].
// A zero size falls back to DefaultPageSize.
func (p Page) Normalize() Page {
	page := p.Page
	if page < 0 {
		page = 0
	}
	size := p.PageSize
	switch {
	case size == 0:
		size = DefaultPageSize
	case size < 1:
		size = 1
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Page: page, PageSize: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	n := p.Normalize()
	return n.Page * n.PageSize
}

// Limit returns the normalized page size.
func (p Page) Limit() int {
	return p.Normalize().PageSize
}
