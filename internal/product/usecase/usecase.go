package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/branch"
	"github.com/nvmanh/techshop-catalog-service/internal/category"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
	"github.com/nvmanh/techshop-catalog-service/pkg/cache"
	"github.com/nvmanh/techshop-catalog-service/pkg/search"
)

const (
	searchCacheTTL     = 5 * time.Minute
	searchCachePrefix  = "catalog:search:"
	searchCachePattern = searchCachePrefix + "*"
	productIndex       = "products"
)

type productUseCase struct {
	repo         product.Repository
	categoryRepo category.Repository
	branchRepo   branch.Repository
	cache        *cache.RedisClient
	es           *search.Client
	logger       *zap.Logger
}

func NewProductUseCase(
	repo product.Repository,
	categoryRepo category.Repository,
	branchRepo branch.Repository,
	redis *cache.RedisClient,
	es *search.Client,
	log *zap.Logger,
) product.UseCase {
	return &productUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		branchRepo:   branchRepo,
		cache:        redis,
		es:           es,
		logger:       log,
	}
}

func (uc *productUseCase) Search(ctx context.Context, filters *dto.CatalogFilters) (*model.Page[model.Product], error) {
	filters.Normalize()

	// A negative price ceiling can never match; echo an empty page rather
	// than raising an error, same as every other unresolvable filter below.
	if filters.PriceMax != nil && *filters.PriceMax < 0 {
		return model.EmptyPage[model.Product](filters.Page, filters.PageSize), nil
	}

	resolved := &dto.QueryFilters{
		NameContains: filters.Name,
		PriceMin:     filters.PriceMin,
		PriceMax:     filters.PriceMax,
		Statuses:     product.EligibleStatuses(auth.FromContext(ctx).Role),
		SortBy:       filters.SortBy,
		SortOrder:    filters.SortOrder,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
	}

	if filters.ParentCategoryName != "" {
		parent, err := uc.categoryRepo.FindParentByName(ctx, filters.ParentCategoryName)
		if err != nil {
			return nil, apperr.Internal(err, "resolve parent category")
		}
		if parent == nil {
			return model.EmptyPage[model.Product](filters.Page, filters.PageSize), nil
		}
		resolved.ParentCategoryID = parent.ID
	}

	if len(filters.ChildCategoryNames) > 0 {
		// Child filters only make sense inside a resolved parent.
		if resolved.ParentCategoryID == "" {
			return model.EmptyPage[model.Product](filters.Page, filters.PageSize), nil
		}
		children, err := uc.categoryRepo.FindChildrenByParent(ctx, resolved.ParentCategoryID)
		if err != nil {
			return nil, apperr.Internal(err, "resolve child categories")
		}
		byName := make(map[string]string, len(children))
		for _, c := range children {
			byName[c.Name] = c.ID
		}
		for _, name := range filters.ChildCategoryNames {
			id, ok := byName[name]
			if !ok {
				return model.EmptyPage[model.Product](filters.Page, filters.PageSize), nil
			}
			resolved.ChildCategoryIDs = append(resolved.ChildCategoryIDs, id)
		}
	}

	if filters.BranchName != "" {
		b, err := uc.branchRepo.FindByName(ctx, filters.BranchName)
		if err != nil {
			return nil, apperr.Internal(err, "resolve branch")
		}
		if b == nil {
			return model.EmptyPage[model.Product](filters.Page, filters.PageSize), nil
		}
		resolved.BranchID = b.ID
	}

	cacheKey := uc.searchCacheKey(resolved)
	if page, ok := uc.cachedPage(ctx, cacheKey); ok {
		return page, nil
	}

	products, count, err := uc.repo.Query(ctx, resolved)
	if err != nil {
		return nil, apperr.Internal(err, "query products")
	}

	page := model.NewPage(products, filters.Page, filters.PageSize, count)
	uc.storePage(ctx, cacheKey, page)
	return page, nil
}

// searchCacheKey hashes the resolved filters; the role is folded in via the
// status set, so admin and public pages never collide.
func (uc *productUseCase) searchCacheKey(resolved *dto.QueryFilters) string {
	data, err := json.Marshal(resolved)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%x", searchCachePrefix, md5.Sum(data))
}

func (uc *productUseCase) cachedPage(ctx context.Context, key string) (*model.Page[model.Product], bool) {
	if uc.cache == nil || key == "" {
		return nil, false
	}
	val, err := uc.cache.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var page model.Page[model.Product]
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (uc *productUseCase) storePage(ctx context.Context, key string, page *model.Page[model.Product]) {
	if uc.cache == nil || key == "" {
		return
	}
	if data, err := json.Marshal(page); err == nil {
		uc.cache.Client.Set(ctx, key, data, searchCacheTTL)
	}
}

func (uc *productUseCase) invalidateSearchCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, searchCachePattern); err != nil {
		uc.logger.Error("failed to invalidate catalog cache", zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.InvalidInput("product id is required")
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}
	// A soft-deleted product does not exist for non-admin callers.
	if !product.VisibleTo(auth.FromContext(ctx).Role, p.Status) {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateProductFields(input.Name, input.Price, input.Stock, input.PromotionPercent); err != nil {
		return nil, err
	}

	branchID, err := uc.resolveBranch(ctx, input.BranchName)
	if err != nil {
		return nil, err
	}
	parentID, childIDs, err := uc.resolveChildCategorySet(ctx, input.ChildCategoryNames)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:             strings.TrimSpace(input.Name),
		Price:            input.Price,
		Stock:            input.Stock,
		Description:      &input.Description,
		Specs:            &input.Specs,
		PromotionPercent: input.PromotionPercent,
		Status:           model.StatusCreated,
		ParentCategoryID: parentID,
		BranchID:         branchID,
	}

	if err := uc.repo.Create(ctx, p, childIDs); err != nil {
		return nil, apperr.Internal(err, "create product")
	}

	go uc.invalidateSearchCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperr.InvalidInput("product id is required")
	}
	if err := validateProductFields(input.Name, input.Price, input.Stock, input.PromotionPercent); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	branchID, err := uc.resolveBranch(ctx, input.BranchName)
	if err != nil {
		return nil, err
	}
	parentID, childIDs, err := uc.resolveChildCategorySet(ctx, input.ChildCategoryNames)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(input.Name)
	p.Price = input.Price
	p.Stock = input.Stock
	p.Description = &input.Description
	p.Specs = &input.Specs
	p.PromotionPercent = input.PromotionPercent
	p.BranchID = branchID
	p.ParentCategoryID = parentID
	// Edits flip CREATED to UPDATED; a disabled product stays DELETED, the
	// edit does not resurrect it.
	if p.Status != model.StatusDeleted {
		p.Status = model.StatusUpdated
	}
	p.UpdatedAt = time.Now()

	if childIDs == nil {
		childIDs = []string{}
	}
	if err := uc.repo.Update(ctx, p, childIDs); err != nil {
		return nil, apperr.Internal(err, "update product")
	}

	go uc.invalidateSearchCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func validateProductFields(name string, price float64, stock int, promotion float64) error {
	if strings.TrimSpace(name) == "" {
		return apperr.InvalidInput("product name is required")
	}
	if price < 0 {
		return apperr.InvalidInput("price must not be negative")
	}
	if stock < 0 {
		return apperr.InvalidInput("stock must not be negative")
	}
	if promotion < 0 || promotion > 100 {
		return apperr.InvalidInput("promotion percent must be between 0 and 100")
	}
	return nil
}

func (uc *productUseCase) resolveBranch(ctx context.Context, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	b, err := uc.branchRepo.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "resolve branch")
	}
	if b == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "branch %q not found", name)
	}
	return &b.ID, nil
}

// resolveChildCategorySet resolves the child category names and enforces the
// single-parent invariant: every child must hang off the same parent, which
// becomes the product's parent category.
func (uc *productUseCase) resolveChildCategorySet(ctx context.Context, names []string) (*string, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}

	children, err := uc.categoryRepo.FindChildrenByNames(ctx, names)
	if err != nil {
		return nil, nil, apperr.Internal(err, "resolve child categories")
	}
	found := make(map[string]model.ChildCategory, len(children))
	for _, c := range children {
		found[c.Name] = c
	}

	parentID := ""
	childIDs := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		c, ok := found[name]
		if !ok {
			return nil, nil, apperr.Newf(apperr.KindInvalidInput, "child category %q does not exist", name)
		}
		if parentID == "" {
			parentID = c.ParentID
		} else if c.ParentID != parentID {
			return nil, nil, apperr.Conflict("child categories must share one parent category")
		}
		if !seen[c.ID] {
			seen[c.ID] = true
			childIDs = append(childIDs, c.ID)
		}
	}
	return &parentID, childIDs, nil
}

func (uc *productUseCase) DisableProduct(ctx context.Context, id string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidInput("product id is required")
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err, "find product")
	}
	if p == nil {
		return apperr.NotFound("product not found")
	}
	if p.Status == model.StatusDeleted {
		return apperr.Conflict("product is already disabled")
	}

	if err := uc.repo.SoftDelete(ctx, id, time.Now()); err != nil {
		return apperr.Internal(err, "disable product")
	}

	go uc.invalidateSearchCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) ReplenishStock(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return apperr.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return apperr.InvalidInput("replenish quantity must be positive")
	}

	if err := uc.repo.AdjustStock(ctx, productID, quantity); err != nil {
		return apperr.Internal(err, "replenish stock")
	}

	go uc.invalidateSearchCache(context.Background())
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"specs": { "type": "text" },
				"price": { "type": "double" },
				"rating": { "type": "double" },
				"status": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
