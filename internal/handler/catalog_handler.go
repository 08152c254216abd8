package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/service"
	"go-retail-store/pkg/validator"
)

type CatalogHandler struct {
	service     service.CatalogService
	projections service.ProjectionService
}

func NewCatalogHandler(s service.CatalogService, p service.ProjectionService) *CatalogHandler {
	return &CatalogHandler{service: s, projections: p}
}

// AdjustmentRequest is the body of POST /products/:id/adjustments.
type AdjustmentRequest struct {
	Direction string `json:"direction" validate:"required,direction"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct handles PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), actor, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.ListProducts(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GetStock handles GET /api/v1/products/:id/stock
func (h *CatalogHandler) GetStock(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	stock, err := h.service.AvailableStock(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": id, "stock": stock})
}

// GetPrice handles GET /api/v1/products/:id/price?discount=N
func (h *CatalogHandler) GetPrice(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	discount, err := decimal.NewFromString(c.Query("discount", "0"))
	if err != nil {
		return respondError(c, errors.Annotatef(storeerrors.InvalidArgument, "discount %q", c.Query("discount")))
	}

	price, err := h.service.DiscountedPrice(c.UserContext(), actor, id, discount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": id, "discount": discount, "price": price})
}

// AdjustStock handles POST /api/v1/products/:id/adjustments
func (h *CatalogHandler) AdjustStock(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := validator.Check(&req); err != nil {
		return respondError(c, err)
	}
	direction, err := adjustmentDirection(req.Direction)
	if err != nil {
		return respondError(c, err)
	}

	movement, err := h.service.AdjustStock(c.UserContext(), actor, id, direction, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock adjusted", "data": movement})
}

// GetMovements handles GET /api/v1/products/:id/movements
func (h *CatalogHandler) GetMovements(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.service.ListMovements(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

// GetAllMovements handles GET /api/v1/movements, the whole ledger.
func (h *CatalogHandler) GetAllMovements(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.service.ListMovements(c.UserContext(), actor, 0)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

func adjustmentDirection(raw string) (model.Direction, error) {
	direction, ok := model.ParseDirection(raw)
	if !ok {
		return "", errors.Annotatef(storeerrors.InvalidArgument, "direction %q", raw)
	}
	return direction, nil
}

// GetCatalog handles GET /api/v1/catalog, the caller's role projection.
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.projections.Products(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
