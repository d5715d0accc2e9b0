package listing

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// TotalPages is max(1, ceil(total/size)).
func TotalPages(total int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta reports page clamped to [1, TotalPages].
func NewMeta(page, size int, total int64) Meta {
	pages := TotalPages(total, size)
	return Meta{Page: clampPage(page, pages), PageSize: size, Total: total, TotalPages: pages}
}

// Window returns offset and limit for page (1-based) of the given size,
// the inclusive range [offset, offset+limit-1].
func Window(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
