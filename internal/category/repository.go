package category

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

// Repository is the persistence contract for the two-level category tree.
// Lookup methods return (nil, nil) when the row does not exist.
type Repository interface {
	CreateParent(ctx context.Context, parent *model.ParentCategory) error
	FindParentByID(ctx context.Context, id string) (*model.ParentCategory, error)
	FindParentByName(ctx context.Context, name string) (*model.ParentCategory, error)
	FindAllParents(ctx context.Context) ([]model.ParentCategory, error)
	UpdateParent(ctx context.Context, parent *model.ParentCategory) error
	// DeleteParent removes the parent; its children go with it (FK cascade).
	DeleteParent(ctx context.Context, id string) error

	// CreateChild persists the child and its branch affiliations.
	CreateChild(ctx context.Context, child *model.ChildCategory, branchIDs []string) error
	FindChildByID(ctx context.Context, id string) (*model.ChildCategory, error)
	FindChildByName(ctx context.Context, name string) (*model.ChildCategory, error)
	FindChildrenByNames(ctx context.Context, names []string) ([]model.ChildCategory, error)
	FindChildrenByParent(ctx context.Context, parentID string) ([]model.ChildCategory, error)
	UpdateChild(ctx context.Context, child *model.ChildCategory) error
	DeleteChild(ctx context.Context, id string) error
}
