package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/service"
)

type PeopleHandler struct {
	service service.PeopleService
}

func NewPeopleHandler(s service.PeopleService) *PeopleHandler {
	return &PeopleHandler{service: s}
}

func (h *PeopleHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *PeopleHandler) GetCustomers(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	customers, err := h.service.ListCustomers(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

func (h *PeopleHandler) GetCustomer(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.service.GetCustomer(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *PeopleHandler) DeleteCustomer(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCustomer(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

func (h *PeopleHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.EmployeeInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}
	employee, err := h.service.CreateEmployee(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Employee created", "data": employee})
}

func (h *PeopleHandler) GetEmployees(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	employees, err := h.service.ListEmployees(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employees)
}

func (h *PeopleHandler) GetEmployee(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	employee, err := h.service.GetEmployee(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employee)
}

func (h *PeopleHandler) DeleteEmployee(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteEmployee(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee deleted"})
}
