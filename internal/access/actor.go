// Package access holds the authorization table for the store's three
// account groups and the Actor every service operation is performed as.
package access

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Name   string
	Role   Role
}

// System is the actor used by startup seeding and maintenance commands.
var System = Actor{Name: "system", Role: RoleManager}
