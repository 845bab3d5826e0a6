package handler

import (
	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(s service.AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

func (h *AccountHandler) Register(r fiber.Router) {
	accounts := r.Group("/customer_accounts")
	accounts.Get("/", h.GetAccounts)
	accounts.Post("/", h.CreateAccount)
	accounts.Put("/:customer_id", h.UpdateAccount)
	accounts.Delete("/:customer_id", h.DeleteAccount)
}

// CreateAccount handles account creation for an existing customer
// POST /customer_accounts
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req service.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	account, err := h.service.CreateAccount(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Account created", "data": account})
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.GetAllAccounts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(accounts)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	var req service.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	account, err := h.service.UpdateAccount(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account updated", "data": account})
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	if err := h.service.DeleteAccount(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
