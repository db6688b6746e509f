package category

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/category/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

type UseCase interface {
	CreateParent(ctx context.Context, input *dto.CreateParentInput) (*model.ParentCategory, error)
	UpdateParent(ctx context.Context, input *dto.UpdateParentInput) (*model.ParentCategory, error)
	DeleteParent(ctx context.Context, id string) error
	ListParents(ctx context.Context) ([]model.ParentCategory, error)
	FindParentByName(ctx context.Context, name string) (*model.ParentCategory, error)

	CreateChild(ctx context.Context, input *dto.CreateChildInput) (*model.ChildCategory, error)
	UpdateChild(ctx context.Context, input *dto.UpdateChildInput) (*model.ChildCategory, error)
	DeleteChild(ctx context.Context, id string) error
	FindChildByName(ctx context.Context, name string) (*model.ChildCategory, error)
	FindChildrenByNames(ctx context.Context, names []string) ([]model.ChildCategory, error)

	// IsSameParent reports whether every named child category shares one
	// parent. Product create/update calls this before attaching a child
	// category set.
	IsSameParent(ctx context.Context, childNames []string) (bool, error)
}
