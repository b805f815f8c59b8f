package dashboard

import "parkdash/internal/models"

// Page is one slice of the sorted list together with its position.
type Page struct {
	Items      []models.Record `json:"items"`
	Number     int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
}

// NormalizePageSize clamps size to the allowed set, defaulting to
// models.DefaultPageSize for anything else.
func NormalizePageSize(size int) int {
	for _, s := range models.PageSizes {
		if size == s {
			return size
		}
	}
	return models.DefaultPageSize
}

// Paginate slices records into 1-based pages of the given size,
// clamping out-of-range page numbers into [1, pages]. An empty list
// yields zero pages and an empty slice.
func Paginate(records []models.Record, page, size int) Page {
	size = NormalizePageSize(size)
	total := len(records)
	pages := (total + size - 1) / size

	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}

	if total == 0 {
		return Page{Items: []models.Record{}, Number: 1, TotalPages: 0, TotalItems: 0}
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	items := make([]models.Record, end-start)
	copy(items, records[start:end])
	return Page{Items: items, Number: page, TotalPages: pages, TotalItems: total}
}
