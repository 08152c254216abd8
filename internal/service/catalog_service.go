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
	"go-retail-store/pkg/validator"
)

// ProductInput carries the writable product fields. Stock is honoured
// only on create, where a positive value is booked as an inbound movement.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

func (in *ProductInput) validate() error {
	if err := validator.Check(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return errors.Annotatef(storeerrors.InvalidArgument, "price %s is negative", in.Price)
	}
	return nil
}

type CatalogService interface {
	CreateProduct(ctx context.Context, actor access.Actor, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor access.Actor, id uint, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor access.Actor, id uint) error
	GetProduct(ctx context.Context, actor access.Actor, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, actor access.Actor) ([]model.Product, error)
	AvailableStock(ctx context.Context, actor access.Actor, id uint) (int, error)
	AdjustStock(ctx context.Context, actor access.Actor, id uint, direction model.Direction, quantity int) (*model.StockMovement, error)
	ListMovements(ctx context.Context, actor access.Actor, productID uint) ([]model.StockMovement, error)
	DiscountedPrice(ctx context.Context, actor access.Actor, id uint, percent decimal.Decimal) (decimal.Decimal, error)
}

type catalogService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	moveRepo    repository.MovementRepository
	stock       *StockKeeper
	policy      *access.Policy
	metrics     *metrics.Collector
	notifier    Notifier
}

func NewCatalogService(
	db *gorm.DB,
	pRepo repository.ProductRepository,
	mRepo repository.MovementRepository,
	stock *StockKeeper,
	policy *access.Policy,
	collector *metrics.Collector,
	notifier Notifier,
) CatalogService {
	return &catalogService{
		db:          db,
		productRepo: pRepo,
		moveRepo:    mRepo,
		stock:       stock,
		policy:      policy,
		metrics:     collector,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, actor access.Actor, in ProductInput) (*model.Product, error) {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Write); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
	}
	var opening *model.StockMovement

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		if in.Stock == 0 {
			return nil
		}
		// The row is new and invisible to other transactions; no lock needed.
		var err error
		opening, err = s.stock.Move(tx, product, model.Inbound, in.Stock)
		return err
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	if opening != nil {
		s.metrics.StockMoved(string(opening.Direction), opening.Quantity)
	}
	logger.Infof("%s created product %d %q", actor.Name, product.ID, product.Name)
	s.notifier.Notify(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    product,
		User:    actor.Name,
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, product.Name),
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor access.Actor, id uint, in ProductInput) (*model.Product, error) {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Write); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := s.productRepo.Update(ctx, &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.notifier.Notify(ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Data:    product,
		User:    actor.Name,
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, product.Name),
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actor access.Actor, id uint) error {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Write); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("%s deleted product %d", actor.Name, id)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, actor access.Actor, id uint) (*model.Product, error) {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Read); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, actor access.Actor) ([]model.Product, error) {
	if err := s.policy.Check(actor, access.ResourceProducts, access.Read); err != nil {
		return nil, err
	}
	return s.productRepo.FindAll(ctx)
}

// AvailableStock never treats a missing product as zero stock.
func (s *catalogService) AvailableStock(ctx context.Context, actor access.Actor, id uint) (int, error) {
	if err := s.policy.CheckCatalogRead(actor); err != nil {
		return 0, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return product.Stock, nil
}

func (s *catalogService) AdjustStock(ctx context.Context, actor access.Actor, id uint, direction model.Direction, quantity int) (_ *model.StockMovement, err error) {
	ctx, span := tracer.Start(ctx, "CatalogService.AdjustStock")
	span.SetAttributes(
		attribute.Int("product.id", int(id)),
		attribute.String("stock.direction", string(direction)),
		attribute.Int("stock.quantity", quantity),
	)
	defer func() { endSpan(span, err) }()

	if err := s.policy.Check(actor, access.ResourceProducts, access.Write); err != nil {
		return nil, err
	}
	if err := s.policy.Check(actor, access.ResourceMovements, access.Write); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "quantity %d must be positive", quantity)
	}
	if !direction.Valid() {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "direction %q", direction)
	}

	unlock := s.stock.Lock(id)
	defer unlock()

	var (
		product  *model.Product
		movement *model.StockMovement
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if product, err = s.stock.Acquire(tx, id); err != nil {
			return err
		}
		movement, err = s.stock.Move(tx, product, direction, quantity)
		return err
	})
	if err != nil {
		if errors.Is(err, storeerrors.InsufficientStock) {
			s.metrics.StockRejected("adjust_stock")
		}
		return nil, errors.Trace(err)
	}

	s.metrics.StockMoved(string(direction), quantity)
	logger.Infof("%s adjusted product %d: %s %d, stock now %d", actor.Name, id, direction, quantity, product.Stock)

	verb := "added"
	if direction == model.Outbound {
		verb = "removed"
	}
	s.notifier.Notify(ws.Event{
		Type:   "stock_update",
		Action: "stock_adjusted",
		Data: map[string]interface{}{
			"movement":  movement,
			"product":   product.Name,
			"new_stock": product.Stock,
		},
		User:    actor.Name,
		Message: fmt.Sprintf("%s %s %d units of '%s'", actor.Name, verb, quantity, product.Name),
	})
	return movement, nil
}

// ListMovements returns the ledger of one product, or of every product
// when productID is zero.
func (s *catalogService) ListMovements(ctx context.Context, actor access.Actor, productID uint) ([]model.StockMovement, error) {
	if err := s.policy.Check(actor, access.ResourceMovements, access.Read); err != nil {
		return nil, err
	}
	if productID == 0 {
		return s.moveRepo.FindAll(ctx)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, errors.Trace(err)
	}
	return s.moveRepo.FindByProduct(ctx, productID)
}

func (s *catalogService) DiscountedPrice(ctx context.Context, actor access.Actor, id uint, percent decimal.Decimal) (decimal.Decimal, error) {
	if err := s.policy.CheckCatalogRead(actor); err != nil {
		return decimal.Zero, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, errors.Trace(err)
	}
	return pricing.DiscountedPrice(product.Price, percent), nil
}
