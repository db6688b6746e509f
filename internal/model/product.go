package model

import "time"

// EntityStatus tracks the soft-delete lifecycle of a catalog row.
// CREATED at insert, UPDATED after any edit, DELETED on admin disable.
// DELETED rows stay in the table and remain visible to admins only.
type EntityStatus string

const (
	StatusCreated EntityStatus = "CREATED"
	StatusUpdated EntityStatus = "UPDATED"
	StatusDeleted EntityStatus = "DELETED"
)

func (s EntityStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusUpdated, StatusDeleted:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	Name             string       `db:"name" json:"name"`
	Price            float64      `db:"price" json:"price"`
	Stock            int          `db:"stock" json:"stock"`
	Description      *string      `db:"description" json:"description"`
	Specs            *string      `db:"specs" json:"specs"`
	Rating           float64      `db:"rating" json:"rating"`
	ReviewCount      int          `db:"review_count" json:"review_count"`
	PromotionPercent float64      `db:"promotion_percent" json:"promotion_percent"`
	Status           EntityStatus `db:"status" json:"status"`
	ParentCategoryID *string      `db:"parent_category_id" json:"parent_category_id"` // Nullable
	BranchID         *string      `db:"branch_id" json:"branch_id"`                   // Nullable
	DeletedAt        *time.Time   `db:"deleted_at" json:"deleted_at"`

	ChildCategories []ChildCategory `db:"-" json:"child_categories,omitempty"` // Joined data
}

// SoldPrice is the unit price after the promotion percentage is applied.
func (p *Product) SoldPrice() float64 {
	return p.Price * (100 - p.PromotionPercent) / 100
}
