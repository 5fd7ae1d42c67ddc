package listctl

import "fmt"

// Paginate returns the items of the 1-based page. The result is empty when the
// page starts past the end of items or when page or pageSize is not positive.
// The returned slice shares its backing array with items.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	offset := (page - 1) * pageSize
	if offset >= len(items) || offset < 0 {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) || end < offset {
		end = len(items)
	}
	return items[offset:end:end]
}

// PageCount is ceil(totalCount/pageSize) with a floor of 1, so an empty result
// is still one (empty) page.
func PageCount(totalCount, pageSize int) int {
	if pageSize < 1 || totalCount <= 0 {
		return 1
	}
	n := totalCount / pageSize
	if totalCount%pageSize != 0 {
		n++
	}
	return n
}

// RangeLabel renders the "Showing X to Y of Z records" line under a table.
func RangeLabel(page, pageSize, totalCount int) string {
	if totalCount <= 0 || pageSize < 1 || page < 1 {
		return "Showing 0 to 0 of 0 records"
	}
	first := (page-1)*pageSize + 1
	if first > totalCount {
		return fmt.Sprintf("Showing 0 to 0 of %d records", totalCount)
	}
	last := min(page*pageSize, totalCount)
	return fmt.Sprintf("Showing %d to %d of %d records", first, last, totalCount)
}
