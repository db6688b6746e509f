package review

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
)

// Repository persists reviews together with the product rating aggregate.
// The *WithRating methods run in one transaction holding a lock on the
// product row, so concurrent reviews on the same product serialize instead
// of racing the running average.
type Repository interface {
	// CreateWithRating inserts the review and folds its rating into the
	// product average.
	CreateWithRating(ctx context.Context, review *model.Review) error
	// UpdateWithRating persists the edited review and swaps its old rating
	// for the new one in the product average.
	UpdateWithRating(ctx context.Context, review *model.Review, oldRating int) error
	// DeleteWithRating removes the review and subtracts its rating; deleting
	// the last review resets the product to the explicit no-rating state.
	DeleteWithRating(ctx context.Context, review *model.Review) error

	FindByID(ctx context.Context, id string) (*model.Review, error)
	Query(ctx context.Context, productID string, filters *dto.ReviewFilters) ([]model.Review, int, error)
}
