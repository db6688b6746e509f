package order

import (
	"context"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/order/dto"
)

type UseCase interface {
	// Create places a new order; the result is always PENDING and snapshots
	// the product's primary and promotion-adjusted prices.
	Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	// UserCancel moves the caller's own order to CANCELLED unless it has
	// already been shipped.
	UserCancel(ctx context.Context, orderID string) (*model.Order, error)
	// UserUpdateQuantity edits the caller's own order while it is neither
	// shipped nor delivered.
	UserUpdateQuantity(ctx context.Context, orderID string, quantity int) (*model.Order, error)
	// AdminSetStatus is the unrestricted administrative correction path.
	AdminSetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	ListByUser(ctx context.Context, page, pageSize int) (*model.Page[model.Order], error)

	// IsOrderedProductByUser is the sole gate the review aggregator consults.
	IsOrderedProductByUser(ctx context.Context, userID, productID string) (bool, error)
}
