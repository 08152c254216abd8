package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
)

var logger = loggo.GetLogger("retail.api.middleware")

const actorKey = "actor"

// Authenticator resolves a bearer token to the actor it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (access.Actor, error)
}

// RequireAuth validates the bearer token and stores the caller's
// access.Actor in the request locals.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		actor, err := auth.Authenticate(c.UserContext(), parts[1])
		if errors.Is(err, storeerrors.Unauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		} else if err != nil {
			logger.Errorf("authenticating request: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// Actor returns the caller stored by RequireAuth.
func Actor(c *fiber.Ctx) (access.Actor, bool) {
	actor, ok := c.Locals(actorKey).(access.Actor)
	return actor, ok
}

// RequireGrant rejects callers whose role lacks op on res. Services check
// again; this only stops a request before its body is parsed.
func RequireGrant(policy *access.Policy, res access.Resource, op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := Actor(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !policy.Allows(actor.Role, res, op) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: requires " + string(op) + " on " + string(res),
			})
		}
		return c.Next()
	}
}
