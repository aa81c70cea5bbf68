package models

// PageMeta describes one page window over a list.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// FundPage is a paginated fund list response.
type FundPage struct {
	List []FundListItem `json:"list"`
	PageMeta
}

// Paginate slices list into the 1-based page window of the given size.
// Out-of-range pages yield an empty slice; page and size are clamped to 1.
// Concatenating pages 1..TotalPages reproduces the list in order.
func Paginate[T any](list []T, page, pageSize int) ([]T, PageMeta) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(list)
	totalPages := (total + pageSize - 1) / pageSize

	meta := PageMeta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, meta
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return list[start:end], meta
}
