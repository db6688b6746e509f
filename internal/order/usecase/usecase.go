package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/order"
	"github.com/nvmanh/techshop-catalog-service/internal/order/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
)

const defaultPageSize = 10

type orderUseCase struct {
	repo        order.Repository
	productRepo product.Repository
	publisher   order.EventPublisher
	logger      *zap.Logger
}

func NewOrderUseCase(
	repo order.Repository,
	productRepo product.Repository,
	publisher order.EventPublisher,
	log *zap.Logger,
) order.UseCase {
	return &orderUseCase{
		repo:        repo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      log,
	}
}

func (uc *orderUseCase) Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, apperr.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperr.InvalidInput("quantity must be positive")
	}

	p, err := uc.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil || p.Status == model.StatusDeleted {
		return nil, apperr.NotFound("product not found")
	}

	if err := uc.productRepo.AdjustStock(ctx, p.ID, -input.Quantity); err != nil {
		if errors.Is(err, product.ErrInsufficientStock) {
			return nil, apperr.Conflict("insufficient stock")
		}
		return nil, apperr.Internal(err, "reserve stock")
	}

	now := time.Now()
	o := &model.Order{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:       userID,
		ProductID:    p.ID,
		Quantity:     input.Quantity,
		Comment:      &input.Comment,
		Status:       model.OrderPending,
		SoldPrice:    p.SoldPrice(),
		PrimaryPrice: p.Price,
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		// Return the reserved stock; the order never existed.
		if restockErr := uc.productRepo.AdjustStock(ctx, p.ID, input.Quantity); restockErr != nil {
			uc.logger.Error("failed to restock after order create failure",
				zap.String("product_id", p.ID), zap.Error(restockErr))
		}
		return nil, apperr.Internal(err, "create order")
	}

	go uc.publishOrderCreated(context.Background(), o)

	return o, nil
}

func (uc *orderUseCase) publishOrderCreated(ctx context.Context, o *model.Order) {
	if uc.publisher == nil {
		return
	}

	event := order.OrderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: "OrderCreated",
		Payload: order.OrderPayload{
			ID:        o.ID,
			UserID:    o.UserID,
			ProductID: o.ProductID,
			Quantity:  o.Quantity,
			SoldPrice: o.SoldPrice,
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, []byte(o.ID), data); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("order_id", o.ID), zap.Error(err))
	}
}

// findOwned loads the order and checks it belongs to the caller.
func (uc *orderUseCase) findOwned(ctx context.Context, orderID string) (*model.Order, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, apperr.InvalidInput("order id is required")
	}

	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err, "find order")
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}
	if o.UserID != userID {
		return nil, apperr.NotAuthorized("order belongs to another user")
	}
	return o, nil
}

func (uc *orderUseCase) UserCancel(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := uc.findOwned(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == model.OrderShipped {
		return nil, apperr.AlreadyProcessed("order has already been shipped")
	}

	wasPending := o.Status == model.OrderPending
	o.Status = model.OrderCancelled
	o.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, apperr.Internal(err, "cancel order")
	}

	// Stock was only held by orders still pending.
	if wasPending {
		if err := uc.productRepo.AdjustStock(ctx, o.ProductID, o.Quantity); err != nil {
			uc.logger.Error("failed to restock cancelled order",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	return o, nil
}

func (uc *orderUseCase) UserUpdateQuantity(ctx context.Context, orderID string, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, apperr.InvalidInput("quantity must be positive")
	}

	o, err := uc.findOwned(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == model.OrderShipped || o.Status == model.OrderDelivered {
		return nil, apperr.AlreadyProcessed("order has already been processed")
	}

	// Only pending orders hold stock.
	if o.Status == model.OrderPending && quantity != o.Quantity {
		delta := o.Quantity - quantity
		if err := uc.productRepo.AdjustStock(ctx, o.ProductID, delta); err != nil {
			if errors.Is(err, product.ErrInsufficientStock) {
				return nil, apperr.Conflict("insufficient stock")
			}
			return nil, apperr.Internal(err, "adjust stock")
		}
	}

	o.Quantity = quantity
	o.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, apperr.Internal(err, "update order")
	}
	return o, nil
}

func (uc *orderUseCase) AdminSetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, apperr.InvalidInput("order id is required")
	}
	if !status.IsValid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "unknown order status %q", status)
	}

	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err, "find order")
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}

	o.Status = status
	o.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, apperr.Internal(err, "update order status")
	}
	return o, nil
}

func (uc *orderUseCase) ListByUser(ctx context.Context, page, pageSize int) (*model.Page[model.Order], error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	orders, count, err := uc.repo.FindByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, apperr.Internal(err, "list orders")
	}
	return model.NewPage(orders, page, pageSize, count), nil
}

func (uc *orderUseCase) IsOrderedProductByUser(ctx context.Context, userID, productID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(productID) == "" {
		return false, apperr.InvalidInput("user id and product id are required")
	}
	exists, err := uc.repo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return false, apperr.Internal(err, "check order existence")
	}
	return exists, nil
}
