package service

import (
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type salesSuite struct {
	storeSuite
}

func TestSalesService(t *testing.T) {
	suite.Run(t, new(salesSuite))
}

func (s *salesSuite) addItem(saleID, productID uint, qty int) (*model.SaleItem, error) {
	return s.sales.AddItem(s.ctx, clerk, saleID, AddItemInput{ProductID: productID, Quantity: qty})
}

func (s *salesSuite) TestCreateSaleStartsAtZero() {
	sale := s.newSale()
	s.True(sale.Total.IsZero())
	s.True(s.totalOf(sale.ID).IsZero())
}

func (s *salesSuite) TestCreateSaleMissingPeople() {
	_, err := s.sales.CreateSale(s.ctx, clerk, CreateSaleInput{CustomerID: 999, EmployeeID: s.employee.ID})
	s.True(errors.Is(err, storeerrors.NotFound), "%v", err)

	_, err = s.sales.CreateSale(s.ctx, clerk, CreateSaleInput{CustomerID: s.customer.ID, EmployeeID: 999})
	s.True(errors.Is(err, storeerrors.NotFound), "%v", err)

	_, err = s.sales.CreateSale(s.ctx, shopper, CreateSaleInput{CustomerID: s.customer.ID, EmployeeID: s.employee.ID})
	s.True(errors.Is(err, storeerrors.PermissionDenied), "%v", err)
}

func (s *salesSuite) TestAddItemDecrementsStockAndAddsTotal() {
	p := s.newProduct("Sabonete", "5.00", 10)
	sale := s.newSale()

	item, err := s.addItem(sale.ID, p.ID, 3)
	s.Require().NoError(err)
	s.Equal("5.00", item.UnitPrice.StringFixed(2))

	s.Equal(7, s.stockOf(p.ID))
	s.Equal("15.00", s.totalOf(sale.ID).StringFixed(2))

	moves := s.movementsOf(p.ID)
	s.Require().Len(moves, 2)
	s.Equal(model.Outbound, moves[1].Direction)
	s.Equal(3, moves[1].Quantity)
	s.Contains(s.events.actions(), "item_sold")
}

func (s *salesSuite) TestAddItemInsufficientStockChangesNothing() {
	p := s.newProduct("Sabonete", "5.00", 2)
	sale := s.newSale()

	_, err := s.addItem(sale.ID, p.ID, 5)
	s.True(errors.Is(err, storeerrors.InsufficientStock), "%v", err)

	s.Equal(2, s.stockOf(p.ID))
	s.True(s.totalOf(sale.ID).IsZero())
	s.Len(s.movementsOf(p.ID), 1)

	got, err := s.sales.GetSale(s.ctx, clerk, sale.ID)
	s.Require().NoError(err)
	s.Empty(got.Items)
}

func (s *salesSuite) TestAddItemZeroPriceUsesProductPrice() {
	p := s.newProduct("Shampoo", "12.30", 5)
	sale := s.newSale()

	item, err := s.sales.AddItem(s.ctx, clerk, sale.ID, AddItemInput{
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: decimal.Zero,
	})
	s.Require().NoError(err)
	s.Equal("12.30", item.UnitPrice.StringFixed(2))
	s.Equal("36.90", s.totalOf(sale.ID).StringFixed(2))
}

func (s *salesSuite) TestAddItemExplicitPriceAndDiscount() {
	p := s.newProduct("Perfume", "200.00", 5)
	sale := s.newSale()

	item, err := s.sales.AddItem(s.ctx, clerk, sale.ID, AddItemInput{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: price("150.00"),
	})
	s.Require().NoError(err)
	s.Equal("150.00", item.UnitPrice.StringFixed(2))

	item, err = s.sales.AddItem(s.ctx, clerk, sale.ID, AddItemInput{
		ProductID:       p.ID,
		Quantity:        2,
		DiscountPercent: decimal.NewFromInt(15),
	})
	s.Require().NoError(err)
	s.Equal("170.00", item.UnitPrice.StringFixed(2))

	s.Equal("490.00", s.totalOf(sale.ID).StringFixed(2))
}

func (s *salesSuite) TestAddItemInvalidArguments() {
	p := s.newProduct("Pente", "3.00", 5)
	sale := s.newSale()

	for _, qty := range []int{0, -1} {
		_, err := s.addItem(sale.ID, p.ID, qty)
		s.True(errors.Is(err, storeerrors.InvalidArgument), "quantity %d: %v", qty, err)
	}
	_, err := s.addItem(sale.ID, 0, 1)
	s.True(errors.Is(err, storeerrors.InvalidArgument), "%v", err)
	s.Equal(5, s.stockOf(p.ID))
}

func (s *salesSuite) TestAddItemMissingSaleOrProduct() {
	p := s.newProduct("Pente", "3.00", 5)
	sale := s.newSale()

	_, err := s.addItem(sale.ID, 999, 1)
	s.True(errors.Is(err, storeerrors.NotFound), "%v", err)

	_, err = s.addItem(999, p.ID, 1)
	s.True(errors.Is(err, storeerrors.NotFound), "%v", err)
	s.Equal(5, s.stockOf(p.ID))
	s.Len(s.movementsOf(p.ID), 1)
}

func (s *salesSuite) TestAddItemRequiresSalesGrant() {
	p := s.newProduct("Pente", "3.00", 5)
	sale := s.newSale()

	_, err := s.sales.AddItem(s.ctx, shopper, sale.ID, AddItemInput{ProductID: p.ID, Quantity: 1})
	s.True(errors.Is(err, storeerrors.PermissionDenied), "%v", err)
	s.Equal(5, s.stockOf(p.ID))
}

// Non-terminating binary fractions must still add up to the cent.
func (s *salesSuite) TestTotalMatchesItemsToTheCent() {
	dime := s.newProduct("Bala", "0.10", 1000)
	odd := s.newProduct("Chiclete", "0.07", 1000)
	sale := s.newSale()

	for i := 0; i < 30; i++ {
		_, err := s.addItem(sale.ID, dime.ID, 1)
		s.Require().NoError(err)
		_, err = s.addItem(sale.ID, odd.ID, 3)
		s.Require().NoError(err)
	}

	got, err := s.sales.GetSale(s.ctx, clerk, sale.ID)
	s.Require().NoError(err)
	sum := decimal.Zero
	for i := range got.Items {
		sum = sum.Add(got.Items[i].LineTotal())
	}
	s.Equal("9.30", sum.StringFixed(2))
	s.Equal(sum.StringFixed(2), got.Total.StringFixed(2))
}

func (s *salesSuite) TestEveryStockChangeHasOneMovement() {
	p := s.newProduct("Escova", "9.90", 20)
	sale := s.newSale()

	_, err := s.addItem(sale.ID, p.ID, 4)
	s.Require().NoError(err)
	_, err = s.catalog.AdjustStock(s.ctx, manager, p.ID, model.Inbound, 5)
	s.Require().NoError(err)
	_, err = s.addItem(sale.ID, p.ID, 30)
	s.Require().Error(err)
	_, err = s.catalog.AdjustStock(s.ctx, manager, p.ID, model.Outbound, 2)
	s.Require().NoError(err)

	net := 0
	for _, m := range s.movementsOf(p.ID) {
		net += m.Delta()
	}
	s.Equal(s.stockOf(p.ID), net)
	s.Equal(19, net)
	s.Len(s.movementsOf(p.ID), 4)
}

func (s *salesSuite) TestItemKeepsPriceAfterProductRepriced() {
	p := s.newProduct("Creme", "8.00", 10)
	sale := s.newSale()

	_, err := s.addItem(sale.ID, p.ID, 2)
	s.Require().NoError(err)

	_, err = s.catalog.UpdateProduct(s.ctx, manager, p.ID, ProductInput{Name: "Creme", Price: price("11.00")})
	s.Require().NoError(err)

	got, err := s.sales.GetSale(s.ctx, clerk, sale.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal("8.00", got.Items[0].UnitPrice.StringFixed(2))
	s.Equal("16.00", got.Total.StringFixed(2))
}

func (s *salesSuite) TestConcurrentAddItemNeverOversells() {
	const (
		stock   = 10
		workers = 8
		each    = 3
	)
	p := s.newProduct("Promoção", "2.50", stock)
	sale := s.newSale()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
		unexpected   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.addItem(sale.ID, p.ID, each)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, storeerrors.InsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(unexpected)
	s.Equal(stock/each, ok)
	s.Equal(workers-stock/each, rejected)
	s.Equal(stock%each, s.stockOf(p.ID))
	s.Equal(decimal.NewFromInt(int64(ok*each)).Mul(price("2.50")).StringFixed(2), s.totalOf(sale.ID).StringFixed(2))
}

func (s *salesSuite) TestConcurrentAddItemExhaustsStock() {
	p := s.newProduct("Última unidade", "1.00", 5)
	sale := s.newSale()

	var wg sync.WaitGroup
	errs := make([]error, 12)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.addItem(sale.ID, p.ID, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, storeerrors.InsufficientStock), "%v", err)
	}
	s.Equal(5, succeeded)
	s.Equal(0, s.stockOf(p.ID))
	s.Equal("5.00", s.totalOf(sale.ID).StringFixed(2))
}

func (s *salesSuite) TestRecomputeTotalRepairsDrift() {
	p := s.newProduct("Toalha", "19.90", 10)
	sale := s.newSale()
	_, err := s.addItem(sale.ID, p.ID, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&model.Sale{}).Where("id = ?", sale.ID).Update("total", price("1.00")).Error)

	fixed, err := s.sales.RecomputeTotal(s.ctx, clerk, sale.ID)
	s.Require().NoError(err)
	s.Equal("39.80", fixed.Total.StringFixed(2))
	s.Equal("39.80", s.totalOf(sale.ID).StringFixed(2))
	s.Len(fixed.Items, 1)
}

func (s *salesSuite) TestRecomputeTotalEmptySale() {
	sale := s.newSale()
	fixed, err := s.sales.RecomputeTotal(s.ctx, manager, sale.ID)
	s.Require().NoError(err)
	s.True(fixed.Total.IsZero())

	_, err = s.sales.RecomputeTotal(s.ctx, manager, 999)
	s.True(errors.Is(err, storeerrors.NotFound), "%v", err)
}

func (s *salesSuite) TestListSales() {
	s.newSale()
	s.newSale()

	sales, err := s.sales.ListSales(s.ctx, clerk)
	s.Require().NoError(err)
	s.Len(sales, 2)

	_, err = s.sales.ListSales(s.ctx, shopper)
	s.True(errors.Is(err, storeerrors.PermissionDenied), "%v", err)
}

func (s *salesSuite) TestCustomerWithSalesCannotBeDeleted() {
	s.newSale()

	err := s.people.DeleteCustomer(s.ctx, manager, s.customer.ID)
	s.True(errors.Is(err, storeerrors.ReferenceInUse), "%v", err)
	err = s.people.DeleteEmployee(s.ctx, manager, s.employee.ID)
	s.True(errors.Is(err, storeerrors.ReferenceInUse), "%v", err)
}
