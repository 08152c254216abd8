// Package errors holds the error values shared by the store's services.
// Callers match them with errors.Is; services annotate them with the
// offending entity.
package errors

import "github.com/juju/errors"

const (
	// NotFound is raised when a referenced product, customer, employee,
	// sale or user does not exist.
	NotFound = errors.ConstError("not found")

	// InsufficientStock is raised when an outbound stock change would
	// drive a product's stock below zero.
	InsufficientStock = errors.ConstError("insufficient stock")

	// InvalidArgument is raised for non-positive quantities, unknown
	// movement directions and prices that must be positive.
	InvalidArgument = errors.ConstError("invalid argument")

	// PermissionDenied is raised when the caller's role has no grant for
	// the resource and operation.
	PermissionDenied = errors.ConstError("permission denied")

	// AlreadyExists is raised when a unique field (CPF, login) is taken.
	AlreadyExists = errors.ConstError("already exists")

	// ReferenceInUse is raised when deleting a row still referenced by a
	// restricting foreign key.
	ReferenceInUse = errors.ConstError("reference in use")

	// Unauthenticated is raised for bad credentials and for tokens that
	// are invalid, expired or superseded by a newer login.
	Unauthenticated = errors.ConstError("unauthenticated")
)
