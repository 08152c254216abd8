package access

import (
	"github.com/juju/errors"

	storeerrors "go-retail-store/internal/errors"
)

// Role is a database account group. The values match grupos_usuarios.nome.
type Role string

const (
	RoleManager  Role = "gerente"
	RoleEmployee Role = "funcionario"
	RoleCustomer Role = "cliente"
)

// Valid reports whether r is one of the three fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// Resource names a table or view grants are issued on.
type Resource string

const (
	ResourceGroups           Resource = "grupos_usuarios"
	ResourceUsers            Resource = "usuarios"
	ResourceCustomers        Resource = "Clientes"
	ResourceEmployees        Resource = "Funcionarios"
	ResourceProducts         Resource = "Produtos"
	ResourceSales            Resource = "Vendas"
	ResourceSaleItems        Resource = "ItensVenda"
	ResourceMovements        Resource = "MovimentacoesEstoque"
	ResourceCustomerProducts Resource = "v_produtos_cliente"
	ResourceEmployeeProducts Resource = "v_produtos_funcionario"
)

// AllResources lists every resource in schema order.
var AllResources = []Resource{
	ResourceGroups,
	ResourceUsers,
	ResourceCustomers,
	ResourceEmployees,
	ResourceProducts,
	ResourceSales,
	ResourceSaleItems,
	ResourceMovements,
	ResourceCustomerProducts,
	ResourceEmployeeProducts,
}

// Operation is the kind of access being requested.
type Operation string

const (
	Read  Operation = "read"
	Write Operation = "write"
)

// Grant is one row of the authorization table.
type Grant struct {
	Role      Role      `json:"role"`
	Resource  Resource  `json:"resource"`
	Operation Operation `json:"operation"`
}

// DefaultGrants returns the fixed grant set for the three account groups.
func DefaultGrants() []Grant {
	var grants []Grant

	// gerente: full access
	for _, res := range AllResources {
		grants = append(grants,
			Grant{RoleManager, res, Read},
			Grant{RoleManager, res, Write},
		)
	}

	grants = append(grants,
		Grant{RoleEmployee, ResourceCustomers, Read},
		Grant{RoleEmployee, ResourceEmployees, Read},
		Grant{RoleEmployee, ResourceEmployeeProducts, Read},
		Grant{RoleEmployee, ResourceSales, Read},
		Grant{RoleEmployee, ResourceSales, Write},
		Grant{RoleEmployee, ResourceSaleItems, Read},
		Grant{RoleEmployee, ResourceSaleItems, Write},

		Grant{RoleCustomer, ResourceCustomerProducts, Read},
	)
	return grants
}

type grantKey struct {
	role Role
	res  Resource
	op   Operation
}

// Policy answers whether a role may perform an operation on a resource.
// It is immutable after construction and safe for concurrent use.
type Policy struct {
	grants map[grantKey]struct{}
	list   []Grant
}

// NewPolicy builds a policy from an explicit grant list.
func NewPolicy(grants []Grant) *Policy {
	p := &Policy{grants: make(map[grantKey]struct{}, len(grants))}
	for _, g := range grants {
		k := grantKey{g.Role, g.Resource, g.Operation}
		if _, dup := p.grants[k]; dup {
			continue
		}
		p.grants[k] = struct{}{}
		p.list = append(p.list, g)
	}
	return p
}

// DefaultPolicy is NewPolicy(DefaultGrants()).
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultGrants())
}

// Allows reports whether role holds the grant.
func (p *Policy) Allows(role Role, res Resource, op Operation) bool {
	_, ok := p.grants[grantKey{role, res, op}]
	return ok
}

// Check fails with PermissionDenied unless the actor holds every listed
// grant on res.
func (p *Policy) Check(actor Actor, res Resource, ops ...Operation) error {
	for _, op := range ops {
		if !p.Allows(actor.Role, res, op) {
			return errors.Annotatef(storeerrors.PermissionDenied, "role %q cannot %s %s", actor.Role, op, res)
		}
	}
	return nil
}

// Grants returns the grants held by role, or all grants when role is empty.
func (p *Policy) Grants(role Role) []Grant {
	var out []Grant
	for _, g := range p.list {
		if role == "" || g.Role == role {
			out = append(out, g)
		}
	}
	return out
}

// ProductView returns the read-only product projection a role reads the
// catalog through. Managers read the employee projection.
func ProductView(role Role) (Resource, bool) {
	switch role {
	case RoleCustomer:
		return ResourceCustomerProducts, true
	case RoleEmployee, RoleManager:
		return ResourceEmployeeProducts, true
	}
	return "", false
}

// CheckCatalogRead allows the actor to read stock levels when it may read
// the products table or its role's product projection.
func (p *Policy) CheckCatalogRead(actor Actor) error {
	if p.Allows(actor.Role, ResourceProducts, Read) {
		return nil
	}
	if view, ok := ProductView(actor.Role); ok && p.Allows(actor.Role, view, Read) {
		return nil
	}
	return errors.Annotatef(storeerrors.PermissionDenied, "role %q cannot read the catalog", actor.Role)
}
