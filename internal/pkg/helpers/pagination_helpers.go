package helpers

const (
	DefaultPage = 1 // Pages are 1-based
	MaxPageSize = 100
)

// TotalPages returns the number of pages of size items needed for total items
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return 1 + (total-1)/size
}

// PageWindow resolves a page request over total items and returns the slice
// bounds along with the page and size actually used. A size of zero or less
// selects every item on a single page. Pages past the end are clamped to the
// first empty page so the offset never overflows.
func PageWindow(page, size, total int) (start, end, usedPage, usedSize int) {
	if total < 0 {
		total = 0
	}
	if size <= 0 {
		size = total
		if size == 0 {
			size = 1
		}
	}
	if page < DefaultPage {
		page = DefaultPage
	}
	if last := TotalPages(total, size); page > last+1 {
		page = last + 1
	}

	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = total
	if size < total-start {
		end = start + size
	}
	return start, end, page, size
}
