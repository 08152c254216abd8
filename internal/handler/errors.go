package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/middleware"
)

var logger = loggo.GetLogger("retail.api")

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storeerrors.InvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, storeerrors.Unauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, storeerrors.PermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, storeerrors.NotFound):
		return fiber.StatusNotFound
	case errors.Is(err, storeerrors.InsufficientStock),
		errors.Is(err, storeerrors.ReferenceInUse),
		errors.Is(err, storeerrors.AlreadyExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as a JSON error body. Unexpected errors are
// logged and hidden from the client.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Errorf("%s %s: %s", c.Method(), c.Path(), errors.ErrorStack(err))
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// actorOf returns the caller set by middleware.RequireAuth.
func actorOf(c *fiber.Ctx) (access.Actor, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return access.Actor{}, errors.Annotate(storeerrors.Unauthenticated, "no authenticated caller")
	}
	return actor, nil
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.Annotatef(storeerrors.InvalidArgument, "%s %q", name, c.Params(name))
	}
	return uint(id), nil
}
