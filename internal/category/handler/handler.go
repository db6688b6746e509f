package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/branch"
	"github.com/nvmanh/techshop-catalog-service/internal/category"
	"github.com/nvmanh/techshop-catalog-service/internal/category/dto"
)

var validate = validator.New()

type CategoryHandler struct {
	uc         category.UseCase
	branchRepo branch.Repository
	logger     *zap.Logger
}

func NewCategoryHandler(uc category.UseCase, branchRepo branch.Repository, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		uc:         uc,
		branchRepo: branchRepo,
		logger:     log,
	}
}

func (h *CategoryHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/categories", h.ListParents)
	api.Get("/categories/same-parent", h.IsSameParent)
	api.Get("/branches", h.ListBranches)

	admin := api.Group("/admin")
	admin.Post("/categories", h.CreateParent)
	admin.Put("/categories/:id", h.UpdateParent)
	admin.Delete("/categories/:id", h.DeleteParent)
	admin.Post("/categories/children", h.CreateChild)
	admin.Put("/categories/children/:id", h.UpdateChild)
	admin.Delete("/categories/children/:id", h.DeleteChild)
}

func (h *CategoryHandler) respondError(c *fiber.Ctx, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("category request failed", zap.Error(err))
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.KindOf(err).String(),
	})
}

func (h *CategoryHandler) ListParents(c *fiber.Ctx) error {
	parents, err := h.uc.ListParents(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": parents})
}

// IsSameParent answers whether every child category named in the
// comma-separated "names" query shares one parent. Product create/update
// flows call this before attaching categories.
func (h *CategoryHandler) IsSameParent(c *fiber.Ctx) error {
	var req struct {
		Names []string `query:"names"`
	}
	if err := c.QueryParser(&req); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid query parameters"))
	}

	same, err := h.uc.IsSameParent(c.UserContext(), req.Names)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"same_parent": same})
}

func (h *CategoryHandler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.branchRepo.FindAll(c.UserContext())
	if err != nil {
		return h.respondError(c, apperr.Internal(err, "list branches"))
	}
	return c.JSON(fiber.Map{"branches": branches})
}

func (h *CategoryHandler) CreateParent(c *fiber.Ctx) error {
	var input dto.CreateParentInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	parent, err := h.uc.CreateParent(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(parent)
}

func (h *CategoryHandler) UpdateParent(c *fiber.Ctx) error {
	var input dto.UpdateParentInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	input.ID = c.Params("id")
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	parent, err := h.uc.UpdateParent(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(parent)
}

func (h *CategoryHandler) DeleteParent(c *fiber.Ctx) error {
	if err := h.uc.DeleteParent(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CategoryHandler) CreateChild(c *fiber.Ctx) error {
	var input dto.CreateChildInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	child, err := h.uc.CreateChild(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(child)
}

func (h *CategoryHandler) UpdateChild(c *fiber.Ctx) error {
	var input dto.UpdateChildInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	input.ID = c.Params("id")
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	child, err := h.uc.UpdateChild(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(child)
}

func (h *CategoryHandler) DeleteChild(c *fiber.Ctx) error {
	if err := h.uc.DeleteChild(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
