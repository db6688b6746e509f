package branch

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

// Repository is the persistence contract for branches. Lookups return
// (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, branch *model.Branch) error
	FindByID(ctx context.Context, id string) (*model.Branch, error)
	FindByName(ctx context.Context, name string) (*model.Branch, error)
	// FindByNames resolves a name set; unknown names are simply absent from
	// the result.
	FindByNames(ctx context.Context, names []string) ([]model.Branch, error)
	FindAll(ctx context.Context) ([]model.Branch, error)
}
