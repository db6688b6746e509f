package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/order"
	"github.com/nvmanh/techshop-catalog-service/internal/order/dto"
)

var validate = validator.New()

type OrderHandler struct {
	uc     order.UseCase
	logger *zap.Logger
}

func NewOrderHandler(uc order.UseCase, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(api fiber.Router) {
	api.Post("/orders", h.Create)
	api.Get("/orders", h.ListMine)
	api.Put("/orders/:id/cancel", h.Cancel)
	api.Put("/orders/:id/quantity", h.UpdateQuantity)

	admin := api.Group("/admin")
	admin.Put("/orders/:id/status", h.SetStatus)
}

func (h *OrderHandler) respondError(c *fiber.Ctx, err error) error {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.logger.Error("order request failed", zap.Error(err))
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperr.KindOf(err).String(),
	})
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	o, err := h.uc.Create(c.UserContext(), &input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	page, err := h.uc.ListByUser(c.UserContext(), c.QueryInt("page"), c.QueryInt("page_size"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(page)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, err := h.uc.UserCancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) UpdateQuantity(c *fiber.Ctx) error {
	var input dto.UpdateQuantityInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	o, err := h.uc.UserUpdateQuantity(c.UserContext(), c.Params("id"), input.Quantity)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	var input dto.SetStatusInput
	if err := c.BodyParser(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput("invalid request body"))
	}
	if err := validate.Struct(&input); err != nil {
		return h.respondError(c, apperr.InvalidInput(err.Error()))
	}

	o, err := h.uc.AdminSetStatus(c.UserContext(), c.Params("id"), model.OrderStatus(input.Status))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(o)
}
