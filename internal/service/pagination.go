package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps page to >= 1 and size to [1, maxPageSize].
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
