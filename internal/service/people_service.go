package service

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
	"go-retail-store/pkg/validator"
)

type CustomerInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	CPF   string `json:"cpf" validate:"omitempty,max=14"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=20"`
}

type EmployeeInput struct {
	Name   string          `json:"name" validate:"required,max=100"`
	CPF    string          `json:"cpf" validate:"omitempty,max=14"`
	Title  string          `json:"title" validate:"max=50"`
	Salary decimal.Decimal `json:"salary"`
}

// PeopleService manages the customers and employees sales refer to.
type PeopleService interface {
	CreateCustomer(ctx context.Context, actor access.Actor, in CustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, actor access.Actor, id uint) (*model.Customer, error)
	ListCustomers(ctx context.Context, actor access.Actor) ([]model.Customer, error)
	DeleteCustomer(ctx context.Context, actor access.Actor, id uint) error
	CreateEmployee(ctx context.Context, actor access.Actor, in EmployeeInput) (*model.Employee, error)
	GetEmployee(ctx context.Context, actor access.Actor, id uint) (*model.Employee, error)
	ListEmployees(ctx context.Context, actor access.Actor) ([]model.Employee, error)
	DeleteEmployee(ctx context.Context, actor access.Actor, id uint) error
}

type peopleService struct {
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	policy       *access.Policy
}

func NewPeopleService(cRepo repository.CustomerRepository, eRepo repository.EmployeeRepository, policy *access.Policy) PeopleService {
	return &peopleService{
		customerRepo: cRepo,
		employeeRepo: eRepo,
		policy:       policy,
	}
}

// optionalCPF maps a blank CPF to NULL so the unique index ignores it.
func optionalCPF(cpf string) *string {
	cpf = strings.TrimSpace(cpf)
	if cpf == "" {
		return nil
	}
	return &cpf
}

func (s *peopleService) CreateCustomer(ctx context.Context, actor access.Actor, in CustomerInput) (*model.Customer, error) {
	if err := s.policy.Check(actor, access.ResourceCustomers, access.Write); err != nil {
		return nil, err
	}
	if err := validator.Check(&in); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		Name:  in.Name,
		CPF:   optionalCPF(in.CPF),
		Email: in.Email,
		Phone: in.Phone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, errors.Trace(err)
	}
	return customer, nil
}

func (s *peopleService) GetCustomer(ctx context.Context, actor access.Actor, id uint) (*model.Customer, error) {
	if err := s.policy.Check(actor, access.ResourceCustomers, access.Read); err != nil {
		return nil, err
	}
	return s.customerRepo.FindByID(ctx, id)
}

func (s *peopleService) ListCustomers(ctx context.Context, actor access.Actor) ([]model.Customer, error) {
	if err := s.policy.Check(actor, access.ResourceCustomers, access.Read); err != nil {
		return nil, err
	}
	return s.customerRepo.FindAll(ctx)
}

func (s *peopleService) DeleteCustomer(ctx context.Context, actor access.Actor, id uint) error {
	if err := s.policy.Check(actor, access.ResourceCustomers, access.Write); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *peopleService) CreateEmployee(ctx context.Context, actor access.Actor, in EmployeeInput) (*model.Employee, error) {
	if err := s.policy.Check(actor, access.ResourceEmployees, access.Write); err != nil {
		return nil, err
	}
	if err := validator.Check(&in); err != nil {
		return nil, err
	}
	if in.Salary.IsNegative() {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "salary %s is negative", in.Salary)
	}

	employee := &model.Employee{
		Name:   in.Name,
		CPF:    optionalCPF(in.CPF),
		Title:  in.Title,
		Salary: in.Salary.Round(2),
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, errors.Trace(err)
	}
	return employee, nil
}

func (s *peopleService) GetEmployee(ctx context.Context, actor access.Actor, id uint) (*model.Employee, error) {
	if err := s.policy.Check(actor, access.ResourceEmployees, access.Read); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindByID(ctx, id)
}

func (s *peopleService) ListEmployees(ctx context.Context, actor access.Actor) ([]model.Employee, error) {
	if err := s.policy.Check(actor, access.ResourceEmployees, access.Read); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindAll(ctx)
}

func (s *peopleService) DeleteEmployee(ctx context.Context, actor access.Actor, id uint) error {
	if err := s.policy.Check(actor, access.ResourceEmployees, access.Write); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}
