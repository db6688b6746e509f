package model

// ParentCategory is the root level of the two-level catalog tree.
type ParentCategory struct {
	BaseModel
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Children    []ChildCategory `db:"-" json:"children,omitempty"` // Joined data
}

// ChildCategory always belongs to exactly one parent. Deleting the parent
// removes its children via the FK cascade.
type ChildCategory struct {
	BaseModel
	ParentID    string   `db:"parent_id" json:"parent_id"`
	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description"`
	Branches    []Branch `db:"-" json:"branches,omitempty"` // Joined data
}

// Branch is a supplier/brand grouping. Shared reference: products and child
// categories point at it, nothing cascades onto it.
type Branch struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}
