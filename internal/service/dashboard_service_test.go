package service

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/suite"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type dashboardSuite struct {
	storeSuite
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(dashboardSuite))
}

func (s *dashboardSuite) TestStats() {
	s.newProduct("Vela", "2.00", 50)
	s.newProduct("Fósforo", "0.50", 4)

	stats, err := s.dashboard.Stats(s.ctx, manager)
	s.Require().NoError(err)
	s.EqualValues(2, stats.TotalProducts)
	s.EqualValues(1, stats.LowStockCount)
	s.Equal("102.00", stats.TotalValuation.StringFixed(2))

	_, err = s.dashboard.Stats(s.ctx, clerk)
	s.True(errors.Is(err, storeerrors.PermissionDenied), "%v", err)
}

func (s *dashboardSuite) TestStockMovement() {
	p := s.newProduct("Vela", "2.00", 50)
	_, err := s.catalog.AdjustStock(s.ctx, manager, p.ID, model.Outbound, 8)
	s.Require().NoError(err)

	days, err := s.dashboard.StockMovement(s.ctx, manager, 7)
	s.Require().NoError(err)
	s.Require().Len(days, 1)
	s.Equal(50, days[0].Inbound)
	s.Equal(8, days[0].Outbound)

	_, err = s.dashboard.StockMovement(s.ctx, manager, 0)
	s.True(errors.Is(err, storeerrors.InvalidArgument), "%v", err)
}

func (s *dashboardSuite) TestSalesSummary() {
	p := s.newProduct("Vela", "2.00", 50)
	sale := s.newSale()
	_, err := s.sales.AddItem(s.ctx, clerk, sale.ID, AddItemInput{ProductID: p.ID, Quantity: 3})
	s.Require().NoError(err)
	s.newSale()

	summary, err := s.dashboard.SalesSummary(s.ctx, clerk, 30)
	s.Require().NoError(err)
	s.EqualValues(2, summary.SaleCount)
	s.Equal("6.00", summary.Revenue.StringFixed(2))

	_, err = s.dashboard.SalesSummary(s.ctx, shopper, 30)
	s.True(errors.Is(err, storeerrors.PermissionDenied), "%v", err)
}
