package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a row of Clientes.
type Customer struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:nome;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	CPF       *string   `gorm:"column:cpf;type:varchar(14);uniqueIndex" json:"cpf,omitempty" validate:"omitempty,max=14"`
	Email     string    `gorm:"column:email;type:varchar(100)" json:"email" validate:"omitempty,email"`
	Phone     string    `gorm:"column:telefone;type:varchar(20)" json:"phone" validate:"max=20"`
	CreatedAt time.Time `gorm:"column:data_cadastro;autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string {
	return "Clientes"
}

// Employee is a row of Funcionarios.
type Employee struct {
	ID      uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name    string          `gorm:"column:nome;type:varchar(100);not null" json:"name" validate:"required,max=100"`
	CPF     *string         `gorm:"column:cpf;type:varchar(14);uniqueIndex" json:"cpf,omitempty" validate:"omitempty,max=14"`
	Title   string          `gorm:"column:cargo;type:varchar(50)" json:"title" validate:"max=50"`
	Salary  decimal.Decimal `gorm:"column:salario;type:decimal(10,2)" json:"salary"`
	HiredAt time.Time       `gorm:"column:data_contratacao;autoCreateTime" json:"hired_at"`
}

func (Employee) TableName() string {
	return "Funcionarios"
}
