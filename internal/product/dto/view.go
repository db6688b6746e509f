package dto

import (
	"time"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

// PublicProductView is the projection served to non-admin callers: no
// lifecycle status and no audit timestamps.
type PublicProductView struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Price            float64               `json:"price"`
	SoldPrice        float64               `json:"sold_price"`
	PromotionPercent float64               `json:"promotion_percent"`
	Stock            int                   `json:"stock"`
	Description      *string               `json:"description"`
	Specs            *string               `json:"specs"`
	Rating           float64               `json:"rating"`
	ReviewCount      int                   `json:"review_count"`
	ParentCategoryID *string               `json:"parent_category_id"`
	BranchID         *string               `json:"branch_id"`
	ChildCategories  []model.ChildCategory `json:"child_categories,omitempty"`
}

// AdminProductView adds the soft-delete state and audit fields on top of the
// public projection. Same result set, different shaping.
type AdminProductView struct {
	PublicProductView
	Status    model.EntityStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt *time.Time         `json:"deleted_at"`
}

func ToPublicView(p *model.Product) PublicProductView {
	return PublicProductView{
		ID:               p.ID,
		Name:             p.Name,
		Price:            p.Price,
		SoldPrice:        p.SoldPrice(),
		PromotionPercent: p.PromotionPercent,
		Stock:            p.Stock,
		Description:      p.Description,
		Specs:            p.Specs,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		ParentCategoryID: p.ParentCategoryID,
		BranchID:         p.BranchID,
		ChildCategories:  p.ChildCategories,
	}
}

func ToAdminView(p *model.Product) AdminProductView {
	return AdminProductView{
		PublicProductView: ToPublicView(p),
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		DeletedAt:         p.DeletedAt,
	}
}

func ToPublicViewPage(page *model.Page[model.Product]) *model.Page[PublicProductView] {
	views := make([]PublicProductView, 0, len(page.Content))
	for i := range page.Content {
		views = append(views, ToPublicView(&page.Content[i]))
	}
	return &model.Page[PublicProductView]{
		Content:       views,
		Page:          page.Page,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

func ToAdminViewPage(page *model.Page[model.Product]) *model.Page[AdminProductView] {
	views := make([]AdminProductView, 0, len(page.Content))
	for i := range page.Content {
		views = append(views, ToAdminView(&page.Content[i]))
	}
	return &model.Page[AdminProductView]{
		Content:       views,
		Page:          page.Page,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}
