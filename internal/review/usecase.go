package review

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
)

type UseCase interface {
	// Create is gated on a prior order by the caller for the product.
	Create(ctx context.Context, input *dto.CreateReviewInput) (*model.Review, error)
	// Update is restricted to the review owner.
	Update(ctx context.Context, input *dto.UpdateReviewInput) (*model.Review, error)
	// Delete is restricted to the review owner, or an admin.
	Delete(ctx context.Context, reviewID string) error
	Search(ctx context.Context, productID string, filters *dto.ReviewFilters) (*model.Page[model.Review], error)
}
