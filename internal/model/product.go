package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of Produtos. Stock only changes through stock movements.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"column:nome;type:varchar(100);not null;index" json:"name" validate:"required,max=100"`
	Description string          `gorm:"column:descricao;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:preco;type:decimal(10,2);not null;check:chk_produtos_preco,preco >= 0" json:"price"`
	Stock       int             `gorm:"column:estoque;not null;default:0;check:chk_produtos_estoque,estoque >= 0" json:"stock"`
	CreatedAt   time.Time       `gorm:"column:data_cadastro;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string {
	return "Produtos"
}

// ProductView is a row of the v_produtos_cliente / v_produtos_funcionario
// projections.
type ProductView struct {
	ID    uint            `gorm:"column:id" json:"id"`
	Name  string          `gorm:"column:nome" json:"name"`
	Price decimal.Decimal `gorm:"column:preco" json:"price"`
	Stock int             `gorm:"column:estoque" json:"stock"`
}
