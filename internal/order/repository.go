package order

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

// Repository is the persistence contract for orders. FindByID returns
// (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error)
	// ExistsByUserAndProduct reports whether the user has any order, of any
	// status, for the product. The review gate runs on this.
	ExistsByUserAndProduct(ctx context.Context, userID, productID string) (bool, error)
}
