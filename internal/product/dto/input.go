package dto

type CreateProductInput struct {
	Name               string   `json:"name" validate:"required"`
	Price              float64  `json:"price" validate:"gte=0"`
	Stock              int      `json:"stock" validate:"gte=0"`
	Description        string   `json:"description"`
	Specs              string   `json:"specs"`
	PromotionPercent   float64  `json:"promotion_percent" validate:"gte=0,lte=100"`
	BranchName         string   `json:"branch"`
	ChildCategoryNames []string `json:"child_categories"`
}

type UpdateProductInput struct {
	ID                 string   `json:"-"`
	Name               string   `json:"name" validate:"required"`
	Price              float64  `json:"price" validate:"gte=0"`
	Stock              int      `json:"stock" validate:"gte=0"`
	Description        string   `json:"description"`
	Specs              string   `json:"specs"`
	PromotionPercent   float64  `json:"promotion_percent" validate:"gte=0,lte=100"`
	BranchName         string   `json:"branch"`
	ChildCategoryNames []string `json:"child_categories"`
}
