package handler

import (
	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) Register(r fiber.Router) {
	orders := r.Group("/orders")
	orders.Get("/", h.GetOrders)
	orders.Post("/", h.PlaceOrder)
	orders.Get("/:id", h.GetOrder)
	orders.Put("/:id", h.UpdateOrder)
	orders.Delete("/:id", h.DeleteOrder)
}

// PlaceOrder handles order creation
// POST /orders
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order placed", "data": order.ToResponse()})
}

// GetOrder returns the order with live totals
// GET /orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	view, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

// UpdateOrder changes date and/or customer only
// PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	order, err := h.service.UpdateOrder(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order.ToResponse()})
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	if err := h.service.DeleteOrder(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}
