package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/review"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
)

var validate = validator.New()

type ReviewHandler struct {
	uc     review.UseCase
	logger *zap.Logger
}

func NewReviewHandler(uc review.UseCase, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReviewHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/products/:id/reviews", h.Search)
	api.Post("/reviews", h.Create)
	api.Put("/reviews/:id", h.Update)
	api.Delete("/reviews/:id", h.Delete)
}

func (h *ReviewHandler) respondError(c *fiber.Ctx, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("review request failed", zap.Error(err))
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.KindOf(err).String(),
	})
}

func (h *ReviewHandler) Search(c *fiber.Ctx) error {
	filters := &dto.ReviewFilters{
		Rating:   c.QueryInt("rating"),
		Comment:  c.Query("comment"),
		Page:     c.QueryInt("page"),
		PageSize: c.QueryInt("page_size"),
	}

	page, err := h.uc.Search(c.UserContext(), c.Params("id"), filters)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	rev, err := h.uc.Create(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rev)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	input.ID = c.Params("id")
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	rev, err := h.uc.Update(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(rev)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
