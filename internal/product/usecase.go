package product

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
)

type UseCase interface {
	// Search runs the composable catalog query: name, price range, category,
	// branch, plus the status set the caller's role is allowed to see.
	Search(ctx context.Context, filters *dto.CatalogFilters) (*model.Page[model.Product], error)
	// GetProduct is role-aware: soft-deleted products do not exist for
	// non-admin callers.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	// DisableProduct soft-deletes: the row stays, visible to admins only.
	DisableProduct(ctx context.Context, id string) error

	// ReplenishStock is driven by warehouse events, not by HTTP callers.
	ReplenishStock(ctx context.Context, productID string, quantity int) error
}
