package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/service"
	"go-retail-store/pkg/validator"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

// CreateSale handles POST /api/v1/sales
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.CreateSaleInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}
	if err := validator.Check(&in); err != nil {
		return respondError(c, err)
	}

	sale, err := h.service.CreateSale(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale created", "data": sale})
}

// AddItem handles POST /api/v1/sales/:id/items
func (h *SalesHandler) AddItem(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	saleID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.AddItemInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.AddItem(c.UserContext(), actor, saleID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added", "data": item})
}

// RecomputeTotal handles POST /api/v1/sales/:id/recompute
func (h *SalesHandler) RecomputeTotal(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	saleID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.service.RecomputeTotal(c.UserContext(), actor, saleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Total recomputed", "data": sale})
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	saleID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.service.GetSale(c.UserContext(), actor, saleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.service.ListSales(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}
