package handler

import (
	"strconv"

	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) Register(r fiber.Router) {
	products := r.Group("/products")
	products.Get("/", h.GetProducts)
	products.Post("/", h.CreateProduct)
	products.Get("/:id", h.GetProduct)
	products.Put("/:id", h.UpdateProduct)
	products.Delete("/:id", h.DeleteProduct)

	r.Get("/stock_movements", h.GetStockMovements)
}

// CreateProduct accepts a single product, or an array with ?many=true
// POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	if wantsMany(c) {
		var reqs []service.ProductRequest
		if err := c.BodyParser(&reqs); err != nil {
			return invalidJSON(c)
		}
		products, err := h.service.CreateProducts(c.UserContext(), reqs)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Products created", "data": products})
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext(), c.Query("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct edits fields from the body, or restocks when ?restock=<n> is given
// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	if c.Context().QueryArgs().Has("restock") {
		amount, err := strconv.ParseInt(c.Query("restock"), 10, 32)
		if err != nil {
			return badRequest(c, "restock must be a positive 32-bit integer")
		}
		product, err := h.service.Restock(c.UserContext(), id, int(amount))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Product restocked", "data": product})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetStockMovements lists ledger entries, optionally for one product
// GET /stock_movements?product_id=
func (h *ProductHandler) GetStockMovements(c *fiber.Ctx) error {
	productID, ok := queryID(c, "product_id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	movements, err := h.service.GetStockMovements(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(movements)
}
