package service

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"go-retail-store/internal/access"
	"go-retail-store/internal/metrics"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
	"go-retail-store/internal/ws"
	"go-retail-store/pkg/database"
)

var (
	manager  = access.Actor{UserID: 1, Name: "Ana", Role: access.RoleManager}
	clerk    = access.Actor{UserID: 2, Name: "Bruno", Role: access.RoleEmployee}
	shopper  = access.Actor{UserID: 3, Name: "Carla", Role: access.RoleCustomer}
	stranger = access.Actor{UserID: 4, Name: "Davi", Role: "visitante"}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Notify(event ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		out = append(out, e.Action)
	}
	return out
}

// storeSuite runs each test against a fresh file-backed database.
type storeSuite struct {
	suite.Suite

	ctx     context.Context
	db      *gorm.DB
	policy  *access.Policy
	metrics *metrics.Collector
	events  *recordingNotifier

	productRepo  repository.ProductRepository
	moveRepo     repository.MovementRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	userRepo     repository.UserRepository
	groupRepo    repository.GroupRepository

	catalog     CatalogService
	sales       SalesService
	people      PeopleService
	projections ProjectionService
	users       UserService
	dashboard   DashboardService

	customer *model.Customer
	employee *model.Employee
}

func (s *storeSuite) SetupTest() {
	db, err := database.OpenSQLite(filepath.Join(s.T().TempDir(), "loja.db"))
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))

	s.ctx = context.Background()
	s.db = db
	s.policy = access.DefaultPolicy()
	s.metrics = metrics.NewCollector()
	s.events = &recordingNotifier{}

	s.productRepo = repository.NewProductRepo(db)
	s.moveRepo = repository.NewMovementRepo(db)
	s.saleRepo = repository.NewSaleRepo(db)
	s.customerRepo = repository.NewCustomerRepo(db)
	s.employeeRepo = repository.NewEmployeeRepo(db)
	s.userRepo = repository.NewUserRepo(db)
	s.groupRepo = repository.NewGroupRepo(db)

	stock := NewStockKeeper(s.productRepo, s.moveRepo)
	s.catalog = NewCatalogService(db, s.productRepo, s.moveRepo, stock, s.policy, s.metrics, s.events)
	s.sales = NewSalesService(db, s.saleRepo, s.customerRepo, s.employeeRepo, stock, s.policy, s.metrics, s.events)
	s.people = NewPeopleService(s.customerRepo, s.employeeRepo, s.policy)
	s.projections = NewProjectionService(s.productRepo, s.policy)
	s.users = NewUserService(s.userRepo, s.groupRepo, s.policy)
	s.dashboard = NewDashboardService(s.moveRepo, s.saleRepo, s.policy)

	s.customer, err = s.people.CreateCustomer(s.ctx, manager, CustomerInput{Name: "Cliente Balcão"})
	s.Require().NoError(err)
	s.employee, err = s.people.CreateEmployee(s.ctx, manager, EmployeeInput{Name: "Caixa 1", Title: "Caixa"})
	s.Require().NoError(err)
}

func (s *storeSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *storeSuite) newProduct(name, price string, stock int) *model.Product {
	p, err := s.catalog.CreateProduct(s.ctx, manager, ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	s.Require().NoError(err)
	return p
}

func (s *storeSuite) newSale() *model.Sale {
	sale, err := s.sales.CreateSale(s.ctx, clerk, CreateSaleInput{
		CustomerID: s.customer.ID,
		EmployeeID: s.employee.ID,
	})
	s.Require().NoError(err)
	return sale
}

func (s *storeSuite) stockOf(id uint) int {
	p, err := s.productRepo.FindByID(s.ctx, id)
	s.Require().NoError(err)
	return p.Stock
}

func (s *storeSuite) movementsOf(id uint) []model.StockMovement {
	m, err := s.moveRepo.FindByProduct(s.ctx, id)
	s.Require().NoError(err)
	return m
}

func (s *storeSuite) totalOf(id uint) decimal.Decimal {
	sale, err := s.saleRepo.FindByID(s.ctx, id)
	s.Require().NoError(err)
	return sale.Total
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
