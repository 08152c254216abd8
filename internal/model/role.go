package model

import "go-retail-store/internal/access"

// Group is a row of grupos_usuarios. Name is the access role of every
// account in the group.
type Group struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:nome;type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"column:descricao;type:text" json:"description"`
}

func (Group) TableName() string {
	return "grupos_usuarios"
}

// Role returns the access role the group grants.
func (g *Group) Role() access.Role {
	return access.Role(g.Name)
}

// DefaultGroups defines the three fixed account groups.
var DefaultGroups = []Group{
	{
		Name:        string(access.RoleManager),
		Description: "Gerente: acesso total",
	},
	{
		Name:        string(access.RoleEmployee),
		Description: "Funcionário: consulta cadastros e registra vendas",
	},
	{
		Name:        string(access.RoleCustomer),
		Description: "Cliente: consulta o catálogo",
	},
}
