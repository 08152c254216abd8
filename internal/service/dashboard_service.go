package service

import (
	"context"
	"time"

	"github.com/juju/errors"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/repository"
)

// MaxReportDays bounds the reporting window.
const MaxReportDays = 365

type DashboardService interface {
	StockMovement(ctx context.Context, actor access.Actor, days int) ([]repository.StockMovementData, error)
	Stats(ctx context.Context, actor access.Actor) (*repository.DashboardStats, error)
	SalesSummary(ctx context.Context, actor access.Actor, days int) (*repository.SalesSummary, error)
}

type dashboardService struct {
	moveRepo repository.MovementRepository
	saleRepo repository.SaleRepository
	policy   *access.Policy
}

func NewDashboardService(mRepo repository.MovementRepository, sRepo repository.SaleRepository, policy *access.Policy) DashboardService {
	return &dashboardService{moveRepo: mRepo, saleRepo: sRepo, policy: policy}
}

func reportWindow(days int) (time.Time, time.Time, error) {
	if days <= 0 || days > MaxReportDays {
		return time.Time{}, time.Time{}, errors.Annotatef(storeerrors.InvalidArgument, "days %d must be between 1 and %d", days, MaxReportDays)
	}
	endDate := time.Now()
	return endDate.AddDate(0, 0, -days), endDate, nil
}

func (s *dashboardService) StockMovement(ctx context.Context, actor access.Actor, days int) ([]repository.StockMovementData, error) {
	if err := s.policy.Check(actor, access.ResourceMovements, access.Read); err != nil {
		return nil, err
	}
	startDate, endDate, err := reportWindow(days)
	if err != nil {
		return nil, err
	}
	return s.moveRepo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) Stats(ctx context.Context, actor access.Actor) (*repository.DashboardStats, error) {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Read); err != nil {
		return nil, err
	}
	return s.moveRepo.GetDashboardStats(ctx)
}

func (s *dashboardService) SalesSummary(ctx context.Context, actor access.Actor, days int) (*repository.SalesSummary, error) {
	if err := s.policy.Check(actor, access.ResourceSales, access.Read); err != nil {
		return nil, err
	}
	startDate, endDate, err := reportWindow(days)
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetSalesSummary(ctx, startDate, endDate)
}
