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
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/product/usecase"
)

type fakeProductRepo struct {
	products   map[string]*model.Product
	childLinks map[string][]string
	lastQuery  *dto.QueryFilters
	queryCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   map[string]*model.Product{},
		childLinks: map[string][]string{},
	}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product, childIDs []string) error {
	cp := *p
	r.products[p.ID] = &cp
	r.childLinks[p.ID] = childIDs
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) Query(_ context.Context, filters *dto.QueryFilters) ([]model.Product, int, error) {
	r.queryCalls++
	cp := *filters
	r.lastQuery = &cp
	var out []model.Product
	for _, p := range r.products {
		if filters.Statuses != nil {
			ok := false
			for _, s := range filters.Statuses {
				if p.Status == s {
					ok = true
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product, childIDs []string) error {
	cp := *p
	r.products[p.ID] = &cp
	if childIDs != nil {
		r.childLinks[p.ID] = childIDs
	}
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	p := r.products[id]
	p.Status = model.StatusDeleted
	p.DeletedAt = &at
	return nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return product.ErrInsufficientStock
	}
	if p.Stock+delta < 0 {
		return product.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

func (r *fakeProductRepo) FindChildCategories(_ context.Context, _ string) ([]model.ChildCategory, error) {
	return nil, nil
}

// fakeCategoryRepo holds a fixed tree: "Máy tính" with children "Laptop" and
// "PC gaming", "Phụ kiện" with child "Webcam".
type fakeCategoryRepo struct {
	parents  []model.ParentCategory
	children []model.ChildCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		parents: []model.ParentCategory{
			{BaseModel: model.BaseModel{ID: "parent-computers"}, Name: "Máy tính"},
			{BaseModel: model.BaseModel{ID: "parent-accessories"}, Name: "Phụ kiện"},
		},
		children: []model.ChildCategory{
			{BaseModel: model.BaseModel{ID: "child-laptop"}, ParentID: "parent-computers", Name: "Laptop"},
			{BaseModel: model.BaseModel{ID: "child-pc"}, ParentID: "parent-computers", Name: "PC gaming"},
			{BaseModel: model.BaseModel{ID: "child-webcam"}, ParentID: "parent-accessories", Name: "Webcam"},
		},
	}
}

func (r *fakeCategoryRepo) CreateParent(_ context.Context, _ *model.ParentCategory) error { return nil }

func (r *fakeCategoryRepo) FindParentByID(_ context.Context, id string) (*model.ParentCategory, error) {
	for _, p := range r.parents {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindParentByName(_ context.Context, name string) (*model.ParentCategory, error) {
	for _, p := range r.parents {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAllParents(_ context.Context) ([]model.ParentCategory, error) {
	return r.parents, nil
}

func (r *fakeCategoryRepo) UpdateParent(_ context.Context, _ *model.ParentCategory) error { return nil }
func (r *fakeCategoryRepo) DeleteParent(_ context.Context, _ string) error                { return nil }

func (r *fakeCategoryRepo) CreateChild(_ context.Context, _ *model.ChildCategory, _ []string) error {
	return nil
}

func (r *fakeCategoryRepo) FindChildByID(_ context.Context, id string) (*model.ChildCategory, error) {
	for _, c := range r.children {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindChildByName(_ context.Context, name string) (*model.ChildCategory, error) {
	for _, c := range r.children {
		if c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindChildrenByNames(_ context.Context, names []string) ([]model.ChildCategory, error) {
	var out []model.ChildCategory
	for _, name := range names {
		for _, c := range r.children {
			if c.Name == name {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindChildrenByParent(_ context.Context, parentID string) ([]model.ChildCategory, error) {
	var out []model.ChildCategory
	for _, c := range r.children {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) UpdateChild(_ context.Context, _ *model.ChildCategory) error { return nil }
func (r *fakeCategoryRepo) DeleteChild(_ context.Context, _ string) error               { return nil }

type fakeBranchRepo struct {
	branches []model.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: []model.Branch{
		{BaseModel: model.BaseModel{ID: "branch-dell"}, Name: "Dell"},
	}}
}

func (r *fakeBranchRepo) Create(_ context.Context, _ *model.Branch) error { return nil }

func (r *fakeBranchRepo) FindByID(_ context.Context, id string) (*model.Branch, error) {
	for _, b := range r.branches {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBranchRepo) FindByName(_ context.Context, name string) (*model.Branch, error) {
	for _, b := range r.branches {
		if b.Name == name {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBranchRepo) FindByNames(_ context.Context, names []string) ([]model.Branch, error) {
	var out []model.Branch
	for _, name := range names {
		for _, b := range r.branches {
			if b.Name == name {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (r *fakeBranchRepo) FindAll(_ context.Context) ([]model.Branch, error) {
	return r.branches, nil
}

func newUseCase(t *testing.T) (product.UseCase, *fakeProductRepo) {
	t.Helper()
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo, newFakeCategoryRepo(), newFakeBranchRepo(), nil, nil, zap.NewNop())
	return uc, repo
}

func adminCtx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin})
}

func userCtx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "user-1", Role: auth.RoleUser})
}

func floatPtr(f float64) *float64 { return &f }

func TestSearchUnresolvableFilters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		filters dto.CatalogFilters
	}{
		{"negative price ceiling", dto.CatalogFilters{PriceMax: floatPtr(-10)}},
		{"unknown parent category", dto.CatalogFilters{ParentCategoryName: "Đồ gia dụng"}},
		{"unknown branch", dto.CatalogFilters{BranchName: "NoSuchBrand"}},
		{"child filter without parent filter", dto.CatalogFilters{ChildCategoryNames: []string{"Laptop"}}},
		{"child not under the parent", dto.CatalogFilters{
			ParentCategoryName: "Máy tính",
			ChildCategoryNames: []string{"Webcam"},
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			uc, repo := newUseCase(t)
			tc.filters.Page = 2
			tc.filters.PageSize = 5

			page, err := uc.Search(context.Background(), &tc.filters)
			require.NoError(t, err)
			assert.Equal(t, 2, page.Page)
			assert.Equal(t, 5, page.PageSize)
			assert.Equal(t, 0, page.TotalElements)
			assert.Empty(t, page.Content)
			assert.Zero(t, repo.queryCalls, "store must not be hit")
		})
	}
}

func TestSearchStatusInjection(t *testing.T) {
	t.Parallel()

	t.Run("admin sees every status", func(t *testing.T) {
		t.Parallel()
		uc, repo := newUseCase(t)
		_, err := uc.Search(adminCtx(), &dto.CatalogFilters{})
		require.NoError(t, err)
		assert.Nil(t, repo.lastQuery.Statuses)
	})

	t.Run("anonymous and user see live statuses only", func(t *testing.T) {
		t.Parallel()
		for _, ctx := range []context.Context{context.Background(), userCtx()} {
			uc, repo := newUseCase(t)
			_, err := uc.Search(ctx, &dto.CatalogFilters{})
			require.NoError(t, err)
			assert.ElementsMatch(t,
				[]model.EntityStatus{model.StatusCreated, model.StatusUpdated},
				repo.lastQuery.Statuses)
		}
	})
}

func TestSearchPaginationClamps(t *testing.T) {
	t.Parallel()

	uc, repo := newUseCase(t)
	page, err := uc.Search(context.Background(), &dto.CatalogFilters{Page: -3, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 0, repo.lastQuery.Page)
	assert.Equal(t, 10, repo.lastQuery.PageSize)
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	t.Run("derives the parent from the child set", func(t *testing.T) {
		t.Parallel()
		uc, repo := newUseCase(t)
		p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{
			Name:               "ThinkPad X1",
			Price:              1500,
			Stock:              3,
			BranchName:         "Dell",
			ChildCategoryNames: []string{"Laptop", "PC gaming"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCreated, p.Status)
		require.NotNil(t, p.ParentCategoryID)
		assert.Equal(t, "parent-computers", *p.ParentCategoryID)
		require.NotNil(t, p.BranchID)
		assert.Equal(t, "branch-dell", *p.BranchID)
		assert.Equal(t, []string{"child-laptop", "child-pc"}, repo.childLinks[p.ID])
	})

	t.Run("child categories spanning parents conflict", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{
			Name:               "Bundle",
			Price:              100,
			ChildCategoryNames: []string{"Laptop", "Webcam"},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("unknown child category is invalid input", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{
			Name:               "Bundle",
			Price:              100,
			ChildCategoryNames: []string{"Màn hình cong"},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
	})

	t.Run("unknown branch is not found", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{
			Name:       "Mouse",
			Price:      20,
			BranchName: "NoSuchBrand",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("field validation", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		for _, input := range []*dto.CreateProductInput{
			{Name: "  ", Price: 10},
			{Name: "Mouse", Price: -1},
			{Name: "Mouse", Price: 10, Stock: -1},
			{Name: "Mouse", Price: 10, PromotionPercent: 120},
		} {
			_, err := uc.CreateProduct(adminCtx(), input)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput), "input=%+v", input)
		}
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		_, err := uc.CreateProduct(userCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20})
		assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()

	t.Run("edit flips status to updated", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20})
		require.NoError(t, err)

		updated, err := uc.UpdateProduct(adminCtx(), &dto.UpdateProductInput{
			ID: p.ID, Name: "Gaming Mouse", Price: 25,
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusUpdated, updated.Status)
		assert.Equal(t, "Gaming Mouse", updated.Name)
	})

	t.Run("edit does not resurrect a disabled product", func(t *testing.T) {
		t.Parallel()
		uc, _ := newUseCase(t)
		p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20})
		require.NoError(t, err)
		require.NoError(t, uc.DisableProduct(adminCtx(), p.ID))

		updated, err := uc.UpdateProduct(adminCtx(), &dto.UpdateProductInput{
			ID: p.ID, Name: "Mouse v2", Price: 22,
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusDeleted, updated.Status)
	})
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	uc, _ := newUseCase(t)
	p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20})
	require.NoError(t, err)
	require.NoError(t, uc.DisableProduct(adminCtx(), p.ID))

	t.Run("disabled product hidden from non-admins", func(t *testing.T) {
		_, err := uc.GetProduct(userCtx(), p.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		_, err = uc.GetProduct(context.Background(), p.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("disabled product visible to admin", func(t *testing.T) {
		got, err := uc.GetProduct(adminCtx(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDeleted, got.Status)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := uc.GetProduct(adminCtx(), "missing")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDisableProduct(t *testing.T) {
	t.Parallel()

	uc, repo := newUseCase(t)
	p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20})
	require.NoError(t, err)

	require.NoError(t, uc.DisableProduct(adminCtx(), p.ID))
	assert.Equal(t, model.StatusDeleted, repo.products[p.ID].Status)
	assert.NotNil(t, repo.products[p.ID].DeletedAt)

	err = uc.DisableProduct(adminCtx(), p.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "second disable conflicts")
}

func TestReplenishStock(t *testing.T) {
	t.Parallel()

	uc, repo := newUseCase(t)
	p, err := uc.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Mouse", Price: 20, Stock: 2})
	require.NoError(t, err)

	require.NoError(t, uc.ReplenishStock(context.Background(), p.ID, 5))
	assert.Equal(t, 7, repo.products[p.ID].Stock)

	assert.True(t, apperr.IsKind(uc.ReplenishStock(context.Background(), p.ID, 0), apperr.KindInvalidInput))
	assert.True(t, apperr.IsKind(uc.ReplenishStock(context.Background(), "", 5), apperr.KindInvalidInput))
}
