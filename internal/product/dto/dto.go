package dto

import "github.com/nvmanh/techshop-catalog-service/internal/model"

const defaultPageSize = 10

// CatalogFilters is the caller-facing search request. Every filter is
// optional; absent filters leave the result unconstrained.
type CatalogFilters struct {
	Name               string   `json:"name" query:"name"`
	PriceMin           *float64 `json:"price_min" query:"price_min"`
	PriceMax           *float64 `json:"price_max" query:"price_max"`
	ParentCategoryName string   `json:"parent_category" query:"parent_category"`
	ChildCategoryNames []string `json:"child_categories" query:"child_categories"`
	BranchName         string   `json:"branch" query:"branch"`
	SortBy             string   `json:"sort_by" query:"sort_by"`       // name, price, created_at
	SortOrder          string   `json:"sort_order" query:"sort_order"` // asc, desc
	Page               int      `json:"page" query:"page"`
	PageSize           int      `json:"page_size" query:"page_size"`
}

// Normalize clamps pagination: pages are 0-indexed, negative pages become 0,
// non-positive sizes fall back to the default.
func (f *CatalogFilters) Normalize() {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
}

// QueryFilters is the resolved, store-facing form: names already mapped to
// ids and the status set injected from the visibility policy. The repository
// folds each non-zero field into the predicate with AND.
type QueryFilters struct {
	NameContains     string
	PriceMin         *float64
	PriceMax         *float64
	ParentCategoryID string
	// ChildCategoryIDs requires the product to be linked to every listed id.
	ChildCategoryIDs []string
	BranchID         string
	// Statuses nil means no status predicate (admin view).
	Statuses  []model.EntityStatus
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}
