package dto

const defaultPageSize = 10

// ReviewFilters narrows a product's review listing. Rating 0 means no
// rating filter; Comment is a case-insensitive substring match.
type ReviewFilters struct {
	Rating   int    `json:"rating" query:"rating"`
	Comment  string `json:"comment" query:"comment"`
	Page     int    `json:"page" query:"page"`
	PageSize int    `json:"page_size" query:"page_size"`
}

func (f *ReviewFilters) Normalize() {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
}
