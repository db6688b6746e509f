package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/order"
	orderdto "github.com/nvmanh/techshop-catalog-service/internal/order/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	productdto "github.com/nvmanh/techshop-catalog-service/internal/product/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/review"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/review/usecase"
)

type fakeProductRepo struct {
	products map[string]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*model.Product{}}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product, _ []string) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) Query(_ context.Context, _ *productdto.QueryFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product, _ []string) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.products[id].Status = model.StatusDeleted
	r.products[id].DeletedAt = &at
	return nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.products[id].Stock += delta
	return nil
}

func (r *fakeProductRepo) FindChildCategories(_ context.Context, _ string) ([]model.ChildCategory, error) {
	return nil, nil
}

// fakeReviewRepo mirrors the transactional store: every write applies the
// matching rating aggregate to the product row.
type fakeReviewRepo struct {
	reviews  map[string]*model.Review
	products *fakeProductRepo
}

func newFakeReviewRepo(products *fakeProductRepo) *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*model.Review{}, products: products}
}

func (r *fakeReviewRepo) CreateWithRating(_ context.Context, rev *model.Review) error {
	cp := *rev
	r.reviews[rev.ID] = &cp
	p := r.products.products[rev.ProductID]
	p.Rating = review.RatingAfterCreate(p.Rating, p.ReviewCount, rev.Rating)
	p.ReviewCount++
	return nil
}

func (r *fakeReviewRepo) UpdateWithRating(_ context.Context, rev *model.Review, oldRating int) error {
	cp := *rev
	r.reviews[rev.ID] = &cp
	p := r.products.products[rev.ProductID]
	p.Rating = review.RatingAfterUpdate(p.Rating, p.ReviewCount, oldRating, rev.Rating)
	return nil
}

func (r *fakeReviewRepo) DeleteWithRating(_ context.Context, rev *model.Review) error {
	delete(r.reviews, rev.ID)
	p := r.products.products[rev.ProductID]
	p.Rating = review.RatingAfterDelete(p.Rating, p.ReviewCount, rev.Rating)
	p.ReviewCount--
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id string) (*model.Review, error) {
	if rev, ok := r.reviews[id]; ok {
		cp := *rev
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeReviewRepo) Query(_ context.Context, productID string, filters *dto.ReviewFilters) ([]model.Review, int, error) {
	var out []model.Review
	for _, rev := range r.reviews {
		if rev.ProductID != productID {
			continue
		}
		if filters.Rating != 0 && rev.Rating != filters.Rating {
			continue
		}
		out = append(out, *rev)
	}
	return out, len(out), nil
}

// fakeOrderUC answers the ordered-before-review gate from a fixed set.
type fakeOrderUC struct {
	ordered map[string]bool // userID + "/" + productID
}

func newFakeOrderUC(pairs ...string) *fakeOrderUC {
	uc := &fakeOrderUC{ordered: map[string]bool{}}
	for _, pair := range pairs {
		uc.ordered[pair] = true
	}
	return uc
}

func (f *fakeOrderUC) Create(_ context.Context, _ *orderdto.CreateOrderInput) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderUC) UserCancel(_ context.Context, _ string) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderUC) UserUpdateQuantity(_ context.Context, _ string, _ int) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderUC) AdminSetStatus(_ context.Context, _ string, _ model.OrderStatus) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderUC) ListByUser(_ context.Context, _, _ int) (*model.Page[model.Order], error) {
	return nil, nil
}

func (f *fakeOrderUC) IsOrderedProductByUser(_ context.Context, userID, productID string) (bool, error) {
	return f.ordered[userID+"/"+productID], nil
}

var _ order.UseCase = (*fakeOrderUC)(nil)
var _ product.Repository = (*fakeProductRepo)(nil)
var _ review.Repository = (*fakeReviewRepo)(nil)

func userCtx(userID string) context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: userID, Role: auth.RoleUser})
}

func adminCtx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin})
}

func newUseCase(t *testing.T, orderedPairs ...string) (review.UseCase, *fakeProductRepo) {
	t.Helper()
	products := newFakeProductRepo(&model.Product{
		BaseModel: model.BaseModel{ID: "prod-laptop"},
		Name:      "ThinkPad X1",
		Status:    model.StatusCreated,
	})
	repo := newFakeReviewRepo(products)
	uc := usecase.NewReviewUseCase(repo, products, newFakeOrderUC(orderedPairs...), nil, zap.NewNop())
	return uc, products
}

func TestCreateReview(t *testing.T) {
	t.Parallel()

	t.Run("requires a prior order for the product", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("buyer can review and the rating moves", func(t *testing.T) {
		t.Parallel()
		uc, products := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{
			ProductID: "prod-laptop", Rating: 4, Comment: "solid machine",
		})
		require.NoError(t, err)
		assert.Equal(t, "u1", rev.UserID)
		assert.Equal(t, 4.0, products.products["prod-laptop"].Rating)
		assert.Equal(t, 1, products.products["prod-laptop"].ReviewCount)
	})

	t.Run("ratings average across reviews", func(t *testing.T) {
		t.Parallel()
		uc, products := newUseCase(t, "u1/prod-laptop", "u2/prod-laptop")
		_, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 4})
		require.NoError(t, err)
		_, err = uc.Create(userCtx("u2"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 2})
		require.NoError(t, err)
		assert.InDelta(t, 3.0, products.products["prod-laptop"].Rating, 1e-9)
	})

	t.Run("rating bounds", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t, "u1/prod-laptop")
		for _, rating := range []int{0, 6, -1} {
			_, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: rating})
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), "rating=%d", rating)
		}
	})

	t.Run("disabled product cannot be reviewed", func(t *testing.T) {
		t.Parallel()
		uc, products := newUseCase(t, "u1/prod-laptop")
		now := time.Now()
		require.NoError(t, products.SoftDelete(context.Background(), "prod-laptop", now))
		_, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.Create(context.Background(), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))
	})
}

func TestUpdateReview(t *testing.T) {
	t.Parallel()

	t.Run("owner edit swaps the rating in the average", func(t *testing.T) {
		t.Parallel()
		uc, products := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 2})
		require.NoError(t, err)

		_, err = uc.Update(userCtx("u1"), &dto.UpdateReviewInput{ID: rev.ID, Rating: 5})
		require.NoError(t, err)
		assert.Equal(t, 5.0, products.products["prod-laptop"].Rating)
		assert.Equal(t, 1, products.products["prod-laptop"].ReviewCount, "count unchanged on edit")
	})

	t.Run("non-owner cannot edit", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 3})
		require.NoError(t, err)

		_, err = uc.Update(userCtx("u2"), &dto.UpdateReviewInput{ID: rev.ID, Rating: 1})
		assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))
	})

	t.Run("unknown review is not found", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.Update(userCtx("u1"), &dto.UpdateReviewInput{ID: "missing", Rating: 3})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDeleteReview(t *testing.T) {
	t.Parallel()

	t.Run("deleting the last review resets the rating", func(t *testing.T) {
		t.Parallel()
		uc, products := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		require.NoError(t, err)

		require.NoError(t, uc.Delete(userCtx("u1"), rev.ID))
		assert.Equal(t, 0.0, products.products["prod-laptop"].Rating)
		assert.Equal(t, 0, products.products["prod-laptop"].ReviewCount)
	})

	t.Run("admin can delete any review", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		require.NoError(t, err)

		assert.NoError(t, uc.Delete(adminCtx(), rev.ID))
	})

	t.Run("non-owner user cannot delete", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t, "u1/prod-laptop")
		rev, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 5})
		require.NoError(t, err)

		err = uc.Delete(userCtx("u2"), rev.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))
	})
}

func TestSearchReviews(t *testing.T) {
	t.Parallel()

	uc, _ := newUseCase(t, "u1/prod-laptop", "u2/prod-laptop")
	_, err := uc.Create(userCtx("u1"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 4})
	require.NoError(t, err)
	_, err = uc.Create(userCtx("u2"), &dto.CreateReviewInput{ProductID: "prod-laptop", Rating: 2})
	require.NoError(t, err)

	t.Run("lists the product's reviews", func(t *testing.T) {
		page, err := uc.Search(context.Background(), "prod-laptop", &dto.ReviewFilters{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalElements)
	})

	t.Run("rating filter narrows", func(t *testing.T) {
		page, err := uc.Search(context.Background(), "prod-laptop", &dto.ReviewFilters{Rating: 4})
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalElements)
	})

	t.Run("blank product id is invalid", func(t *testing.T) {
		_, err := uc.Search(context.Background(), "  ", &dto.ReviewFilters{})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	})
}
