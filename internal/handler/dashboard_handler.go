package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func queryDays(c *fiber.Ctx) int {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil {
		return 0
	}
	return days
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	days := queryDays(c)
	data, err := h.service.StockMovement(c.UserContext(), actor, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.service.Stats(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetSalesSummary returns sale count and revenue
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	days := queryDays(c)
	summary, err := h.service.SalesSummary(c.UserContext(), actor, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   summary,
	})
}
