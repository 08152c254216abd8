package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/metrics"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
	"go-retail-store/internal/service"
	"go-retail-store/pkg/database"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		storeerrors.InvalidArgument:   http.StatusBadRequest,
		storeerrors.Unauthenticated:   http.StatusUnauthorized,
		storeerrors.PermissionDenied:  http.StatusForbidden,
		storeerrors.NotFound:          http.StatusNotFound,
		storeerrors.InsufficientStock: http.StatusConflict,
		storeerrors.ReferenceInUse:    http.StatusConflict,
		storeerrors.AlreadyExists:     http.StatusConflict,
		errors.New("boom"):            http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(errors.Annotate(err, "context")), err.Error())
	}
}

type apiSuite struct {
	suite.Suite
	app   *fiber.App
	users service.UserService
	token string
}

func TestAdjustmentDirection(t *testing.T) {
	d, err := adjustmentDirection("OUT")
	require.NoError(t, err)
	assert.Equal(t, model.Outbound, d)

	for _, raw := range []string{"", "sideways", "entradas"} {
		_, err := adjustmentDirection(raw)
		assert.True(t, errors.Is(err, storeerrors.InvalidArgument), raw)
	}
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(apiSuite))
}

func (s *apiSuite) SetupTest() {
	db, err := database.OpenSQLite(filepath.Join(s.T().TempDir(), "loja.db"))
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.T().Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	policy := access.DefaultPolicy()
	collector := metrics.NewCollector()

	productRepo := repository.NewProductRepo(db)
	moveRepo := repository.NewMovementRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	userRepo := repository.NewUserRepo(db)
	groupRepo := repository.NewGroupRepo(db)

	stock := service.NewStockKeeper(productRepo, moveRepo)
	auth := service.NewAuthService(userRepo, policy, nil, service.AuthOptions{TokenTTL: time.Hour})
	s.users = service.NewUserService(userRepo, groupRepo, policy)
	s.Require().NoError(s.users.SeedAdmin(context.Background(), "admin", "admin123"))

	s.app = fiber.New()
	Register(s.app, Handlers{
		Auth:      NewAuthHandler(auth),
		Catalog:   NewCatalogHandler(service.NewCatalogService(db, productRepo, moveRepo, stock, policy, collector, nil), service.NewProjectionService(productRepo, policy)),
		Sales:     NewSalesHandler(service.NewSalesService(db, saleRepo, customerRepo, employeeRepo, stock, policy, collector, nil)),
		People:    NewPeopleHandler(service.NewPeopleService(customerRepo, employeeRepo, policy)),
		Users:     NewUserHandler(s.users, policy),
		Dashboard: NewDashboardHandler(service.NewDashboardService(moveRepo, saleRepo, policy)),
	}, policy, auth, nil)

	s.token = s.login("admin", "admin123")
}

func (s *apiSuite) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		s.Require().NoError(json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *apiSuite) list(path, token string) (int, []interface{}) {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out []interface{}
	if resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func (s *apiSuite) login(login, password string) string {
	status, body := s.do("POST", "/api/v1/auth/login", "", fiber.Map{"login": login, "password": password})
	s.Require().Equal(http.StatusOK, status, body)
	return body["token"].(string)
}

func (s *apiSuite) created(body map[string]interface{}) float64 {
	data, ok := body["data"].(map[string]interface{})
	s.Require().True(ok, body)
	return data["id"].(float64)
}

func decimalField(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case string:
		return decimal.RequireFromString(x)
	case float64:
		return decimal.NewFromFloat(x)
	}
	return decimal.Zero
}

func (s *apiSuite) TestRequiresToken() {
	status, _ := s.do("GET", "/api/v1/catalog", "", nil)
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.do("POST", "/api/v1/auth/login", "", fiber.Map{"login": "admin", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, status)
}

func (s *apiSuite) TestSaleFlow() {
	status, body := s.do("POST", "/api/v1/products", s.token, fiber.Map{"name": "Sabonete", "price": "5.00", "stock": 10})
	s.Require().Equal(http.StatusCreated, status, body)
	productID := s.created(body)

	status, body = s.do("POST", "/api/v1/customers", s.token, fiber.Map{"name": "Cliente"})
	s.Require().Equal(http.StatusCreated, status, body)
	customerID := s.created(body)

	status, body = s.do("POST", "/api/v1/employees", s.token, fiber.Map{"name": "Caixa"})
	s.Require().Equal(http.StatusCreated, status, body)
	employeeID := s.created(body)

	status, body = s.do("POST", "/api/v1/sales", s.token, fiber.Map{"customer_id": customerID, "employee_id": employeeID})
	s.Require().Equal(http.StatusCreated, status, body)
	saleID := s.created(body)
	salePath := "/api/v1/sales/" + decimal.NewFromFloat(saleID).String()

	status, body = s.do("POST", salePath+"/items", s.token, fiber.Map{"product_id": productID, "quantity": 3})
	s.Require().Equal(http.StatusCreated, status, body)

	status, body = s.do("POST", salePath+"/items", s.token, fiber.Map{"product_id": productID, "quantity": 50})
	s.Equal(http.StatusConflict, status, body)

	status, body = s.do("POST", salePath+"/items", s.token, fiber.Map{"product_id": productID, "quantity": 0})
	s.Equal(http.StatusBadRequest, status, body)

	status, body = s.do("GET", salePath, s.token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("15.00", decimalField(body["total"]).StringFixed(2))

	productPath := "/api/v1/products/" + decimal.NewFromFloat(productID).String()
	status, body = s.do("GET", productPath+"/stock", s.token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.EqualValues(7, body["stock"])

	status, body = s.do("GET", productPath+"/price?discount=95", s.token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("0.50", decimalField(body["price"]).StringFixed(2))

	status, body = s.do("POST", salePath+"/recompute", s.token, nil)
	s.Require().Equal(http.StatusOK, status, body)

	status, _ = s.do("DELETE", productPath, s.token, nil)
	s.Equal(http.StatusConflict, status)
}

func (s *apiSuite) TestAdjustStock() {
	status, body := s.do("POST", "/api/v1/products", s.token, fiber.Map{"name": "Café", "price": 15, "stock": 1})
	s.Require().Equal(http.StatusCreated, status, body)
	path := "/api/v1/products/" + decimal.NewFromFloat(s.created(body)).String()

	status, body = s.do("POST", path+"/adjustments", s.token, fiber.Map{"direction": "in", "quantity": 4})
	s.Require().Equal(http.StatusCreated, status, body)

	status, _ = s.do("POST", path+"/adjustments", s.token, fiber.Map{"direction": "Saída", "quantity": 9})
	s.Equal(http.StatusConflict, status)

	status, _ = s.do("POST", path+"/adjustments", s.token, fiber.Map{"direction": "sideways", "quantity": 1})
	s.Equal(http.StatusBadRequest, status)

	status, rows := s.list(path+"/movements", s.token)
	s.Equal(http.StatusOK, status)
	s.Len(rows, 2)

	status, body = s.do("POST", "/api/v1/products", s.token, fiber.Map{"name": "Chá", "price": 8, "stock": 2})
	s.Require().Equal(http.StatusCreated, status, body)

	status, rows = s.list("/api/v1/movements", s.token)
	s.Equal(http.StatusOK, status)
	s.Len(rows, 3)

	status, _ = s.do("GET", "/api/v1/products/abc/stock", s.token, nil)
	s.Equal(http.StatusBadRequest, status)
	status, _ = s.do("GET", "/api/v1/products/999/stock", s.token, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *apiSuite) TestCustomerSeesOnlyProjection() {
	_, err := s.users.CreateUser(context.Background(), access.System, &service.CreateUserRequest{
		Login: "cliente", Name: "Cliente", Password: "cliente123", Role: access.RoleCustomer,
	})
	s.Require().NoError(err)
	token := s.login("cliente", "cliente123")

	status, _ := s.do("GET", "/api/v1/catalog", token, nil)
	s.Equal(http.StatusOK, status)

	for _, path := range []string{"/api/v1/products", "/api/v1/sales", "/api/v1/customers", "/api/v1/users", "/api/v1/movements", "/api/v1/dashboard/stats"} {
		status, _ := s.do("GET", path, token, nil)
		s.Equal(http.StatusForbidden, status, path)
	}
}

func (s *apiSuite) TestGroupsCarryGrants() {
	req := httptest.NewRequest("GET", "/api/v1/groups", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var groups []struct {
		Name   string         `json:"name"`
		Grants []access.Grant `json:"grants"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&groups))
	s.Require().Len(groups, 3)
	for _, g := range groups {
		s.NotEmpty(g.Grants, g.Name)
	}
}
