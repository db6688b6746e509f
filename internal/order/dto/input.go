package dto

type CreateOrderInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Comment   string `json:"comment"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type SetStatusInput struct {
	Status string `json:"status" validate:"required"`
}
