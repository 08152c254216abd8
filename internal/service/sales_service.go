package service

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/metrics"
	"go-retail-store/internal/model"
	"go-retail-store/internal/pricing"
	"go-retail-store/internal/repository"
	"go-retail-store/internal/ws"
)

type CreateSaleInput struct {
	CustomerID uint `json:"customer_id" validate:"required"`
	EmployeeID uint `json:"employee_id" validate:"required"`
}

// AddItemInput describes one line added to a sale. A zero or negative
// UnitPrice charges the product's current price; a positive
// DiscountPercent is then applied to whichever price was chosen.
type AddItemInput struct {
	ProductID       uint            `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type SalesService interface {
	CreateSale(ctx context.Context, actor access.Actor, in CreateSaleInput) (*model.Sale, error)
	AddItem(ctx context.Context, actor access.Actor, saleID uint, in AddItemInput) (*model.SaleItem, error)
	RecomputeTotal(ctx context.Context, actor access.Actor, saleID uint) (*model.Sale, error)
	GetSale(ctx context.Context, actor access.Actor, saleID uint) (*model.Sale, error)
	ListSales(ctx context.Context, actor access.Actor) ([]model.Sale, error)
}

type salesService struct {
	db           *gorm.DB
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	stock        *StockKeeper
	policy       *access.Policy
	metrics      *metrics.Collector
	notifier     Notifier
}

func NewSalesService(
	db *gorm.DB,
	sRepo repository.SaleRepository,
	cRepo repository.CustomerRepository,
	eRepo repository.EmployeeRepository,
	stock *StockKeeper,
	policy *access.Policy,
	collector *metrics.Collector,
	notifier Notifier,
) SalesService {
	return &salesService{
		db:           db,
		saleRepo:     sRepo,
		customerRepo: cRepo,
		employeeRepo: eRepo,
		stock:        stock,
		policy:       policy,
		metrics:      collector,
		notifier:     notifierOrNoop(notifier),
	}
}

func (s *salesService) CreateSale(ctx context.Context, actor access.Actor, in CreateSaleInput) (*model.Sale, error) {
	if err := s.policy.Check(actor, access.ResourceSales, access.Write); err != nil {
		return nil, err
	}
	if in.CustomerID == 0 || in.EmployeeID == 0 {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "customer and employee are required")
	}

	sale := &model.Sale{
		CustomerID: in.CustomerID,
		EmployeeID: in.EmployeeID,
		Total:      decimal.Zero,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.customerRepo.Exists(tx, in.CustomerID); err != nil {
			return err
		}
		if err := s.employeeRepo.Exists(tx, in.EmployeeID); err != nil {
			return err
		}
		return s.saleRepo.Create(tx, sale)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	s.metrics.SaleCreated()
	logger.Infof("%s opened sale %d for customer %d", actor.Name, sale.ID, sale.CustomerID)
	return sale, nil
}

// AddItem appends a line to a sale, takes its quantity out of stock and
// adds its line total to the sale, all in one transaction. The product
// lock is taken before the sale lock.
func (s *salesService) AddItem(ctx context.Context, actor access.Actor, saleID uint, in AddItemInput) (_ *model.SaleItem, err error) {
	ctx, span := tracer.Start(ctx, "SalesService.AddItem")
	span.SetAttributes(
		attribute.Int("sale.id", int(saleID)),
		attribute.Int("product.id", int(in.ProductID)),
		attribute.Int("item.quantity", in.Quantity),
	)
	defer func() { endSpan(span, err) }()

	if err := s.policy.Check(actor, access.ResourceSales, access.Write); err != nil {
		return nil, err
	}
	if err := s.policy.Check(actor, access.ResourceSaleItems, access.Write); err != nil {
		return nil, err
	}
	if in.ProductID == 0 {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "product is required")
	}
	if in.Quantity <= 0 {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "quantity %d must be positive", in.Quantity)
	}

	unlock := s.stock.Lock(in.ProductID)
	defer unlock()

	var (
		product *model.Product
		item    *model.SaleItem
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if product, err = s.stock.Acquire(tx, in.ProductID); err != nil {
			return err
		}
		sale, err := s.saleRepo.FindForUpdate(tx, saleID)
		if err != nil {
			return err
		}
		if in.Quantity > product.Stock {
			return insufficientStock(product, in.Quantity)
		}

		item = &model.SaleItem{
			SaleID:    sale.ID,
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: resolveUnitPrice(product, in),
		}
		if err := s.saleRepo.CreateItem(tx, item); err != nil {
			return err
		}
		if _, err := s.stock.Move(tx, product, model.Outbound, in.Quantity); err != nil {
			return err
		}
		return s.saleRepo.SetTotal(tx, sale.ID, sale.Total.Add(item.LineTotal()).Round(2))
	})
	if err != nil {
		if errors.Is(err, storeerrors.InsufficientStock) {
			s.metrics.StockRejected("add_item")
		}
		return nil, errors.Trace(err)
	}

	s.metrics.StockMoved(string(model.Outbound), item.Quantity)
	s.metrics.ItemSold(item.LineTotal())
	s.notifier.Notify(ws.Event{
		Type:   "stock_update",
		Action: "item_sold",
		Data: map[string]interface{}{
			"sale_id":   saleID,
			"item":      item,
			"product":   product.Name,
			"new_stock": product.Stock,
		},
		User:    actor.Name,
		Message: fmt.Sprintf("%s sold %d units of '%s'", actor.Name, item.Quantity, product.Name),
	})
	return item, nil
}

func resolveUnitPrice(product *model.Product, in AddItemInput) decimal.Decimal {
	price := in.UnitPrice
	if !price.IsPositive() {
		price = product.Price
	}
	if in.DiscountPercent.IsPositive() {
		price = pricing.DiscountedPrice(price, in.DiscountPercent)
	}
	return price.Round(2)
}

// RecomputeTotal overwrites the sale total with the sum of its items.
func (s *salesService) RecomputeTotal(ctx context.Context, actor access.Actor, saleID uint) (_ *model.Sale, err error) {
	ctx, span := tracer.Start(ctx, "SalesService.RecomputeTotal")
	span.SetAttributes(attribute.Int("sale.id", int(saleID)))
	defer func() { endSpan(span, err) }()

	if err := s.policy.Check(actor, access.ResourceSales, access.Write); err != nil {
		return nil, err
	}
	if err := s.policy.Check(actor, access.ResourceSaleItems, access.Read); err != nil {
		return nil, err
	}

	var sale *model.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sale, err = s.saleRepo.FindForUpdate(tx, saleID); err != nil {
			return err
		}
		items, err := s.saleRepo.FindItems(tx, saleID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for i := range items {
			total = total.Add(items[i].LineTotal())
		}
		total = total.Round(2)
		if !total.Equal(sale.Total) {
			logger.Warningf("sale %d total was %s, items sum to %s", saleID, sale.Total, total)
		}
		if err := s.saleRepo.SetTotal(tx, saleID, total); err != nil {
			return err
		}
		sale.Total = total
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return sale, nil
}

func (s *salesService) GetSale(ctx context.Context, actor access.Actor, saleID uint) (*model.Sale, error) {
	if err := s.policy.Check(actor, access.ResourceSales, access.Read); err != nil {
		return nil, err
	}
	if err := s.policy.Check(actor, access.ResourceSaleItems, access.Read); err != nil {
		return nil, err
	}
	return s.saleRepo.FindByID(ctx, saleID)
}

func (s *salesService) ListSales(ctx context.Context, actor access.Actor) ([]model.Sale, error) {
	if err := s.policy.Check(actor, access.ResourceSales, access.Read); err != nil {
		return nil, err
	}
	return s.saleRepo.FindAll(ctx)
}
