package pipeline

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	Offset     int
}

// TotalPages returns ceil(n/size), at least 1. A non-positive size means a single page.
func TotalPages(n, size int) int {
	if size <= 0 || n <= size {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of records. It reports false for a page
// outside [1, TotalPages], in which case no page is produced.
func Paginate[T any](records []T, size, page int) (Page[T], bool) {
	total := TotalPages(len(records), size)
	if page < 1 || page > total {
		return Page[T]{}, false
	}
	if size <= 0 {
		return Page[T]{Items: records, Number: 1, TotalPages: 1}, true
	}
	start := (page - 1) * size
	end := min(start+size, len(records))
	return Page[T]{
		Items:      records[start:end:end],
		Number:     page,
		TotalPages: total,
		Offset:     start,
	}, true
}
