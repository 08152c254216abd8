package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/access"
	"go-retail-store/internal/service"
)

type UserHandler struct {
	userService service.UserService
	policy      *access.Policy
}

func NewUserHandler(userService service.UserService, policy *access.Policy) *UserHandler {
	return &UserHandler{userService: userService, policy: policy}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	user, err := h.userService.CreateUser(c.UserContext(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user.ToResponse(),
	})
}

// GetUsers handles GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	users, err := h.userService.ListUsers(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.userService.DeleteUser(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetGroups returns the account groups with their grants
// GET /api/v1/groups
func (h *UserHandler) GetGroups(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	groups, err := h.userService.ListGroups(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, len(groups))
	for i, g := range groups {
		out[i] = fiber.Map{
			"id":          g.ID,
			"name":        g.Name,
			"description": g.Description,
			"grants":      h.policy.Grants(g.Role()),
		}
	}
	return c.JSON(out)
}
