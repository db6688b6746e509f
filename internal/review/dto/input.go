package dto

type CreateReviewInput struct {
	ProductID string   `json:"product_id" validate:"required"`
	Rating    int      `json:"rating" validate:"required,min=1,max=5"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
}

type UpdateReviewInput struct {
	ID      string   `json:"-"`
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}
