package repository

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	Exists(tx *gorm.DB, id uint) error
	Delete(ctx context.Context, id uint) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	Exists(tx *gorm.DB, id uint) error
	Delete(ctx context.Context, id uint) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error, "customer", customer.Name)
}

func (r *customerRepo) FindAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, errors.Trace(err)
}

func (r *customerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err, "customer", id)
	}
	return &customer, nil
}

// Exists fails with NotFound when the customer is absent.
func (r *customerRepo) Exists(tx *gorm.DB, id uint) error {
	return exists(tx, &model.Customer{}, "customer", id)
}

func (r *customerRepo) Delete(ctx context.Context, id uint) error {
	return deleteUnreferenced(r.db.WithContext(ctx), &model.Customer{}, "customer", "cliente_id", id)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return translate(r.db.WithContext(ctx).Create(employee).Error, "employee", employee.Name)
}

func (r *employeeRepo) FindAll(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&employees).Error
	return employees, errors.Trace(err)
}

func (r *employeeRepo) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err, "employee", id)
	}
	return &employee, nil
}

// Exists fails with NotFound when the employee is absent.
func (r *employeeRepo) Exists(tx *gorm.DB, id uint) error {
	return exists(tx, &model.Employee{}, "employee", id)
}

func (r *employeeRepo) Delete(ctx context.Context, id uint) error {
	return deleteUnreferenced(r.db.WithContext(ctx), &model.Employee{}, "employee", "funcionario_id", id)
}

func exists(tx *gorm.DB, row any, what string, id uint) error {
	var n int64
	if err := tx.Model(row).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.Trace(err)
	}
	if n == 0 {
		return errors.Annotatef(storeerrors.NotFound, "%s %d", what, id)
	}
	return nil
}

// deleteUnreferenced deletes a customer or employee no sale points at.
// Vendas restricts the delete.
func deleteUnreferenced(db *gorm.DB, row any, what, saleColumn string, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, row, what, id); err != nil {
			return err
		}
		n, err := countRefs(tx, &model.Sale{}, saleColumn, id)
		if err != nil {
			return errors.Trace(err)
		}
		if n > 0 {
			return errors.Annotatef(storeerrors.ReferenceInUse, "%s %d has %d sales", what, id, n)
		}
		return translate(tx.Delete(row, id).Error, what, id)
	})
}
