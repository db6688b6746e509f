package handler

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
)

var validate = validator.New()

type ProductHandler struct {
	uc     product.UseCase
	logger *zap.Logger
}

func NewProductHandler(uc product.UseCase, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/catalog", h.Search)
	api.Get("/catalog/:id", h.Get)

	admin := api.Group("/admin")
	admin.Post("/products", h.Create)
	admin.Put("/products/:id", h.Update)
	admin.Delete("/products/:id", h.Disable)
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("product request failed", zap.Error(err))
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.KindOf(err).String(),
	})
}

func parseFilters(c *fiber.Ctx) (*dto.CatalogFilters, error) {
	filters := &dto.CatalogFilters{
		Name:               c.Query("name"),
		ParentCategoryName: c.Query("parent_category"),
		BranchName:         c.Query("branch"),
		SortBy:             c.Query("sort_by"),
		SortOrder:          c.Query("sort_order"),
		Page:               c.QueryInt("page"),
		PageSize:           c.QueryInt("page_size"),
	}

	if v := c.Query("child_categories"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filters.ChildCategoryNames = append(filters.ChildCategoryNames, name)
			}
		}
	}

	if v := c.Query("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperr.InvalidInput("price_min must be a number")
		}
		filters.PriceMin = &f
	}
	if v := c.Query("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperr.InvalidInput("price_max must be a number")
		}
		filters.PriceMax = &f
	}

	return filters, nil
}

// Search serves the same filtered page in two shapes: the admin projection
// keeps lifecycle and audit fields, the public one does not.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return h.respondError(c, err)
	}

	ctx := c.UserContext()
	page, err := h.uc.Search(ctx, filters)
	if err != nil {
		return h.respondError(c, err)
	}

	if auth.FromContext(ctx).IsAdmin() {
		return c.JSON(dto.ToAdminViewPage(page))
	}
	return c.JSON(dto.ToPublicViewPage(page))
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p, err := h.uc.GetProduct(ctx, c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	if auth.FromContext(ctx).IsAdmin() {
		return c.JSON(dto.ToAdminView(p))
	}
	return c.JSON(dto.ToPublicView(p))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	p, err := h.uc.CreateProduct(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdminView(p))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	input.ID = c.Params("id")
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	p, err := h.uc.UpdateProduct(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(dto.ToAdminView(p))
}

func (h *ProductHandler) Disable(c *fiber.Ctx) error {
	if err := h.uc.DisableProduct(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
