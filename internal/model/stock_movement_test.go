package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"Entrada", "entrada", "IN", " in ", "inbound"} {
		d, ok := ParseDirection(s)
		assert.True(t, ok, s)
		assert.Equal(t, Inbound, d, s)
	}
	for _, s := range []string{"Saída", "saida", "OUT", "Outbound"} {
		d, ok := ParseDirection(s)
		assert.True(t, ok, s)
		assert.Equal(t, Outbound, d, s)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
}

func TestDirectionValid(t *testing.T) {
	assert.True(t, Inbound.Valid())
	assert.True(t, Outbound.Valid())
	assert.False(t, Direction("IN").Valid())
}

func TestMovementDelta(t *testing.T) {
	in := StockMovement{Direction: Inbound, Quantity: 4}
	out := StockMovement{Direction: Outbound, Quantity: 3}
	assert.Equal(t, 4, in.Delta())
	assert.Equal(t, -3, out.Delta())
}

func TestSaleItemLineTotal(t *testing.T) {
	item := SaleItem{Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")}
	assert.Equal(t, "15.00", item.LineTotal().StringFixed(2))
}

func TestUserPassword(t *testing.T) {
	var u User
	assert.NoError(t, u.SetPassword("s3nha"))
	assert.NotEqual(t, "s3nha", u.Password)
	assert.True(t, u.CheckPassword("s3nha"))
	assert.False(t, u.CheckPassword("outra"))
}

func TestUserRoleFromGroup(t *testing.T) {
	u := User{ID: 7, Name: "Ana"}
	assert.Equal(t, "", string(u.Role()))

	u.Group = &Group{Name: "funcionario"}
	actor := u.Actor()
	assert.Equal(t, uint(7), actor.UserID)
	assert.Equal(t, "funcionario", string(actor.Role))
}
