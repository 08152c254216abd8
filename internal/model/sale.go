package model

import (
	"time"

	"github.com/shopspring/decimal"

	"go-retail-store/internal/pricing"
)

// Sale is a row of Vendas. Total is maintained incrementally as items are
// added and always equals the sum of its items' line totals.
type Sale struct {
	ID         uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerID uint            `gorm:"column:cliente_id;not null;index" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	EmployeeID uint            `gorm:"column:funcionario_id;not null;index" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"employee,omitempty"`
	CreatedAt  time.Time       `gorm:"column:data_venda;autoCreateTime;index" json:"created_at"`
	Total      decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null;default:0" json:"total"`
	Items      []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`
}

func (Sale) TableName() string {
	return "Vendas"
}

// SaleItem is a row of ItensVenda. UnitPrice is the price charged when
// the item was added and is never rewritten afterwards.
type SaleItem struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SaleID    uint            `gorm:"column:venda_id;not null;index" json:"sale_id"`
	ProductID uint            `gorm:"column:produto_id;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int             `gorm:"column:quantidade;not null;check:chk_itensvenda_quantidade,quantidade > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:preco_unitario;type:decimal(10,2);not null" json:"unit_price"`
}

func (SaleItem) TableName() string {
	return "ItensVenda"
}

// LineTotal is Quantity × UnitPrice.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.Quantity, i.UnitPrice)
}
