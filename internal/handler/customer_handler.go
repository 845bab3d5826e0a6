package handler

import (
	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

func (h *CustomerHandler) Register(r fiber.Router) {
	customers := r.Group("/customers")
	customers.Get("/", h.GetCustomers)
	customers.Post("/", h.CreateCustomer)
	customers.Get("/:id", h.GetCustomer)
	customers.Put("/:id", h.UpdateCustomer)
	customers.Delete("/:id", h.DeleteCustomer)
}

// CreateCustomer accepts a single customer, or an array with ?many=true
// POST /customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	if wantsMany(c) {
		var reqs []service.CustomerRequest
		if err := c.BodyParser(&reqs); err != nil {
			return invalidJSON(c)
		}
		customers, err := h.service.CreateCustomers(c.UserContext(), reqs)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customers created", "data": customers})
	}

	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// GetCustomers lists customers, filtered by ?name= substring
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAllCustomers(c.UserContext(), c.Query("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer returns the customer with account and orders
// GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	detail, err := h.service.GetCustomerDetail(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(detail)
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	var req service.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
