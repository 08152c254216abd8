package repository

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateStock(tx *gorm.DB, id uint, newStock int) error
	Delete(ctx context.Context, id uint) error
	FindView(ctx context.Context, view string) ([]model.ProductView, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return translate(tx.Create(product).Error, "product", nil)
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, errors.Trace(err)
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err, "product", id)
	}
	return &product, nil
}

// FindForUpdate reads the product with a row lock held until tx ends.
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		return nil, translate(err, "product", id)
	}
	return &product, nil
}

// Update writes name, description and price. Stock is never written here.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"nome":      product.Name,
			"descricao": product.Description,
			"preco":     product.Price,
		})
	if res.Error != nil {
		return translate(res.Error, "product", product.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Annotatef(storeerrors.NotFound, "product %d", product.ID)
	}
	return nil
}

// UpdateStock must run in the transaction that holds the product lock.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uint, newStock int) error {
	err := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("estoque", newStock).Error
	return translate(err, "product", id)
}

// Delete removes a product nothing references. Sale items and stock
// movements restrict the delete.
func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.FindForUpdate(tx, id); err != nil {
			return err
		}
		refs := []struct {
			model any
			name  string
		}{
			{&model.SaleItem{}, "sale items"},
			{&model.StockMovement{}, "stock movements"},
		}
		for _, ref := range refs {
			n, err := countRefs(tx, ref.model, "produto_id", id)
			if err != nil {
				return errors.Trace(err)
			}
			if n > 0 {
				return errors.Annotatef(storeerrors.ReferenceInUse, "product %d has %d %s", id, n, ref.name)
			}
		}
		return translate(tx.Delete(&model.Product{}, id).Error, "product", id)
	})
}

// FindView reads one of the product projections.
func (r *productRepo) FindView(ctx context.Context, view string) ([]model.ProductView, error) {
	var rows []model.ProductView
	err := r.db.WithContext(ctx).Table(view).Order("id ASC").Find(&rows).Error
	return rows, errors.Trace(err)
}
