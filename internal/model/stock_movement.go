package model

import (
	"strings"
	"time"
)

// Direction is the sense of a stock movement. The values are the ones
// stored in MovimentacoesEstoque.tipo.
type Direction string

const (
	Inbound  Direction = "Entrada"
	Outbound Direction = "Saída"
)

// Valid reports whether d is Inbound or Outbound.
func (d Direction) Valid() bool {
	return d == Inbound || d == Outbound
}

// ParseDirection accepts the stored values and the short API aliases
// IN/OUT, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "in", "inbound":
		return Inbound, true
	case "saída", "saida", "out", "outbound":
		return Outbound, true
	}
	return "", false
}

// StockMovement is an append-only ledger row. Every change to
// Product.Stock writes exactly one.
type StockMovement struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"column:produto_id;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Direction Direction `gorm:"column:tipo;type:varchar(10);not null;check:chk_movimentacoes_tipo,tipo IN ('Entrada','Saída')" json:"direction"`
	Quantity  int       `gorm:"column:quantidade;not null;check:chk_movimentacoes_quantidade,quantidade > 0" json:"quantity"`
	CreatedAt time.Time `gorm:"column:data_movimentacao;autoCreateTime;index" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "MovimentacoesEstoque"
}

// Delta is the signed change the movement applies to stock.
func (m *StockMovement) Delta() int {
	if m.Direction == Outbound {
		return -m.Quantity
	}
	return m.Quantity
}
