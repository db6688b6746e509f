package model

// Page is one page of a search result. Page numbers are 0-indexed.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	PageSize      int `json:"page_size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

// NewPage wraps a content slice with its pagination metadata.
// TotalPages is ceil(total/pageSize); pageSize is assumed positive here,
// callers normalize it first.
func NewPage[T any](content []T, page, pageSize, total int) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Page[T]{
		Content:       content,
		Page:          page,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// EmptyPage echoes the requested page and size with no content. Search paths
// use it when a filter resolves to nothing instead of raising an error.
func EmptyPage[T any](page, pageSize int) *Page[T] {
	return NewPage[T](nil, page, pageSize, 0)
}
