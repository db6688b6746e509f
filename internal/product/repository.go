package product

import (
	"context"
	"errors"
	"time"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
)

// ErrInsufficientStock is returned by AdjustStock when a decrement would
// drive the stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository is the persistence contract for products. FindByID returns
// (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, product *model.Product, childCategoryIDs []string) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// Query executes the folded filter predicate and returns one page plus
	// the total match count.
	Query(ctx context.Context, filters *dto.QueryFilters) ([]model.Product, int, error)
	// Update persists the row; a non-nil childCategoryIDs slice replaces the
	// child category links, nil leaves them alone.
	Update(ctx context.Context, product *model.Product, childCategoryIDs []string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// AdjustStock applies a stock delta atomically. Negative deltas are
	// conditional on sufficient stock and fail with ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) error
	FindChildCategories(ctx context.Context, productID string) ([]model.ChildCategory, error)
}
