package service

import (
	"github.com/im7mortal/kmutex"
	"github.com/juju/errors"
	"gorm.io/gorm"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
)

// StockKeeper is the only code that writes Product.Stock. It pairs each
// stock write with its ledger row and serializes writers per product.
//
// Usage: Lock the product, open a transaction, Acquire the row, Move it,
// commit, then release the lock. Holding the lock across commit keeps a
// second writer from reading the pre-commit stock.
type StockKeeper struct {
	locks     *kmutex.Kmutex
	products  repository.ProductRepository
	movements repository.MovementRepository
}

func NewStockKeeper(products repository.ProductRepository, movements repository.MovementRepository) *StockKeeper {
	return &StockKeeper{
		locks:     kmutex.New(),
		products:  products,
		movements: movements,
	}
}

// Lock serializes stock changes to one product within this process and
// returns the release func. Different products never share a lock.
func (k *StockKeeper) Lock(productID uint) (unlock func()) {
	k.locks.Lock(productID)
	return func() { k.locks.Unlock(productID) }
}

// Acquire reads the product inside tx with a row lock, so writers in
// other processes queue behind this transaction too.
func (k *StockKeeper) Acquire(tx *gorm.DB, productID uint) (*model.Product, error) {
	return k.products.FindForUpdate(tx, productID)
}

// Move applies one movement to an acquired product: it checks the
// quantity against the locked stock, writes the new stock and appends the
// ledger row. product.Stock is updated in place.
func (k *StockKeeper) Move(tx *gorm.DB, product *model.Product, direction model.Direction, quantity int) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "quantity %d must be positive", quantity)
	}
	if !direction.Valid() {
		return nil, errors.Annotatef(storeerrors.InvalidArgument, "direction %q", direction)
	}

	newStock := product.Stock
	switch direction {
	case model.Inbound:
		newStock += quantity
	case model.Outbound:
		if quantity > product.Stock {
			return nil, insufficientStock(product, quantity)
		}
		newStock -= quantity
	}

	if err := k.products.UpdateStock(tx, product.ID, newStock); err != nil {
		return nil, errors.Trace(err)
	}

	movement := &model.StockMovement{
		ProductID: product.ID,
		Direction: direction,
		Quantity:  quantity,
	}
	if err := k.movements.Create(tx, movement); err != nil {
		return nil, errors.Trace(err)
	}

	product.Stock = newStock
	return movement, nil
}

func insufficientStock(product *model.Product, requested int) error {
	return errors.Annotatef(storeerrors.InsufficientStock,
		"product %d has %d in stock, %d requested", product.ID, product.Stock, requested)
}
