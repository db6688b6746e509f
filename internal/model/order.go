package model

// OrderStatus is the order state machine. PENDING is the only initial state;
// SHIPPED, DELIVERED and CANCELLED are terminal for user-initiated mutation.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	UserID    string      `db:"user_id" json:"user_id"`
	ProductID string      `db:"product_id" json:"product_id"`
	Quantity  int         `db:"quantity" json:"quantity"`
	Comment   *string     `db:"comment" json:"comment"`
	Status    OrderStatus `db:"status" json:"status"`
	// Unit price snapshots taken at order time so later catalog edits do not
	// rewrite order history.
	SoldPrice    float64 `db:"sold_price" json:"sold_price"`
	PrimaryPrice float64 `db:"primary_price" json:"primary_price"`
}
