package service

import (
	"context"

	"github.com/juju/errors"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
)

// ProjectionService serves the read-only catalog each role is allowed to
// see.
type ProjectionService interface {
	Products(ctx context.Context, actor access.Actor) ([]model.ProductView, error)
}

type projectionService struct {
	productRepo repository.ProductRepository
	policy      *access.Policy
}

func NewProjectionService(pRepo repository.ProductRepository, policy *access.Policy) ProjectionService {
	return &projectionService{productRepo: pRepo, policy: policy}
}

func (s *projectionService) Products(ctx context.Context, actor access.Actor) ([]model.ProductView, error) {
	view, ok := access.ProductView(actor.Role)
	if !ok {
		return nil, errors.Annotatef(storeerrors.PermissionDenied, "role %q has no catalog view", actor.Role)
	}
	if err := s.policy.Check(actor, view, access.Read); err != nil {
		return nil, err
	}
	return s.productRepo.FindView(ctx, string(view))
}
