package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/order"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/internal/review"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
	"github.com/nvmanh/techshop-catalog-service/pkg/cache"
)

const searchCachePattern = "catalog:search:*"

type reviewUseCase struct {
	repo        review.Repository
	productRepo product.Repository
	orderUC     order.UseCase
	cache       *cache.RedisClient
	logger      *zap.Logger
}

func NewReviewUseCase(
	repo review.Repository,
	productRepo product.Repository,
	orderUC order.UseCase,
	redis *cache.RedisClient,
	log *zap.Logger,
) review.UseCase {
	return &reviewUseCase{
		repo:        repo,
		productRepo: productRepo,
		orderUC:     orderUC,
		cache:       redis,
		logger:      log,
	}
}

func (uc *reviewUseCase) Create(ctx context.Context, input *dto.CreateReviewInput) (*model.Review, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, apperr.InvalidInput("product id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperr.InvalidInput("rating must be between 1 and 5")
	}

	p, err := uc.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil || p.Status == model.StatusDeleted {
		return nil, apperr.NotFound("product not found")
	}

	// Ordered-before-review gate: any order of any status qualifies.
	ordered, err := uc.orderUC.IsOrderedProductByUser(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !ordered {
		return nil, apperr.Conflict("a review requires a prior order for this product")
	}

	now := time.Now()
	rev := &model.Review{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   &input.Comment,
		Images:    input.Images,
	}

	if err := uc.repo.CreateWithRating(ctx, rev); err != nil {
		return nil, apperr.Internal(err, "create review")
	}

	go uc.invalidateSearchCache(context.Background())

	return rev, nil
}

func (uc *reviewUseCase) Update(ctx context.Context, input *dto.UpdateReviewInput) (*model.Review, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperr.InvalidInput("review id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperr.InvalidInput("rating must be between 1 and 5")
	}

	rev, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find review")
	}
	if rev == nil {
		return nil, apperr.NotFound("review not found")
	}
	if rev.UserID != userID {
		return nil, apperr.NotAuthorized("review belongs to another user")
	}

	oldRating := rev.Rating
	rev.Rating = input.Rating
	rev.Comment = &input.Comment
	rev.Images = input.Images
	rev.UpdatedAt = time.Now()

	if err := uc.repo.UpdateWithRating(ctx, rev, oldRating); err != nil {
		return nil, apperr.Internal(err, "update review")
	}

	go uc.invalidateSearchCache(context.Background())

	return rev, nil
}

func (uc *reviewUseCase) Delete(ctx context.Context, reviewID string) error {
	caller := auth.FromContext(ctx)
	if caller.UserID == "" && !caller.IsAdmin() {
		return apperr.NotAuthorized("authentication required")
	}
	if strings.TrimSpace(reviewID) == "" {
		return apperr.InvalidInput("review id is required")
	}

	rev, err := uc.repo.FindByID(ctx, reviewID)
	if err != nil {
		return apperr.Internal(err, "find review")
	}
	if rev == nil {
		return apperr.NotFound("review not found")
	}
	if rev.UserID != caller.UserID && !caller.IsAdmin() {
		return apperr.NotAuthorized("review belongs to another user")
	}

	if err := uc.repo.DeleteWithRating(ctx, rev); err != nil {
		return apperr.Internal(err, "delete review")
	}

	go uc.invalidateSearchCache(context.Background())

	return nil
}

func (uc *reviewUseCase) Search(ctx context.Context, productID string, filters *dto.ReviewFilters) (*model.Page[model.Review], error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apperr.InvalidInput("product id is required")
	}
	filters.Normalize()

	reviews, count, err := uc.repo.Query(ctx, productID, filters)
	if err != nil {
		return nil, apperr.Internal(err, "query reviews")
	}
	return model.NewPage(reviews, filters.Page, filters.PageSize, count), nil
}

// Review writes move the product rating, which is part of the cached catalog
// pages.
func (uc *reviewUseCase) invalidateSearchCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, searchCachePattern); err != nil {
		uc.logger.Error("failed to invalidate catalog cache", zap.Error(err))
	}
}
