package dto

type CreateParentInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateParentInput struct {
	ID          string `json:"-"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CreateChildInput struct {
	ParentID    string   `json:"parent_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	BranchNames []string `json:"branch_names"`
}

type UpdateChildInput struct {
	ID          string `json:"-"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}
