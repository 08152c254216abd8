package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/access"
	"go-retail-store/internal/middleware"
)

// Handlers groups the API handlers mounted by Register.
type Handlers struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Sales     *SalesHandler
	People    *PeopleHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
}

// Register mounts the /api/v1 routes on router. loginLimiter guards the
// login endpoint and may be nil.
func Register(router fiber.Router, h Handlers, policy *access.Policy, auth middleware.Authenticator, loginLimiter fiber.Handler) {
	api := router.Group("/api/v1")
	grant := func(res access.Resource, op access.Operation) fiber.Handler {
		return middleware.RequireGrant(policy, res, op)
	}

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	if loginLimiter != nil {
		authGroup.Post("/login", loginLimiter, h.Auth.Login)
	} else {
		authGroup.Post("/login", h.Auth.Login)
	}
	authGroup.Post("/validate-token", h.Auth.ValidateToken)
	authGroup.Post("/change-password", middleware.RequireAuth(auth), h.Auth.ChangePassword)
	authGroup.Post("/heartbeat", middleware.RequireAuth(auth), h.Auth.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(auth))

	// Catalog
	protected.Get("/catalog", h.Catalog.GetCatalog)
	protected.Get("/products", grant(access.ResourceProducts, access.Read), h.Catalog.GetProducts)
	protected.Post("/products", grant(access.ResourceProducts, access.Write), h.Catalog.CreateProduct)
	protected.Get("/products/:id", grant(access.ResourceProducts, access.Read), h.Catalog.GetProduct)
	protected.Put("/products/:id", grant(access.ResourceProducts, access.Write), h.Catalog.UpdateProduct)
	protected.Delete("/products/:id", grant(access.ResourceProducts, access.Write), h.Catalog.DeleteProduct)
	protected.Get("/products/:id/stock", h.Catalog.GetStock)
	protected.Get("/products/:id/price", h.Catalog.GetPrice)
	protected.Post("/products/:id/adjustments", grant(access.ResourceMovements, access.Write), h.Catalog.AdjustStock)
	protected.Get("/products/:id/movements", grant(access.ResourceMovements, access.Read), h.Catalog.GetMovements)
	protected.Get("/movements", grant(access.ResourceMovements, access.Read), h.Catalog.GetAllMovements)

	// Sales
	protected.Get("/sales", grant(access.ResourceSales, access.Read), h.Sales.GetSales)
	protected.Post("/sales", grant(access.ResourceSales, access.Write), h.Sales.CreateSale)
	protected.Get("/sales/:id", grant(access.ResourceSales, access.Read), h.Sales.GetSale)
	protected.Post("/sales/:id/items", grant(access.ResourceSaleItems, access.Write), h.Sales.AddItem)
	protected.Post("/sales/:id/recompute", grant(access.ResourceSales, access.Write), h.Sales.RecomputeTotal)

	// People
	protected.Get("/customers", h.People.GetCustomers)
	protected.Post("/customers", h.People.CreateCustomer)
	protected.Get("/customers/:id", h.People.GetCustomer)
	protected.Delete("/customers/:id", h.People.DeleteCustomer)
	protected.Get("/employees", h.People.GetEmployees)
	protected.Post("/employees", h.People.CreateEmployee)
	protected.Get("/employees/:id", h.People.GetEmployee)
	protected.Delete("/employees/:id", h.People.DeleteEmployee)

	// Accounts
	protected.Get("/users", h.Users.GetUsers)
	protected.Post("/users", h.Users.CreateUser)
	protected.Delete("/users/:id", h.Users.DeleteUser)
	protected.Get("/groups", h.Users.GetGroups)

	// Dashboard
	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)
	protected.Get("/dashboard/sales", h.Dashboard.GetSalesSummary)
}
