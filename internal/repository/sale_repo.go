package repository

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-retail-store/internal/model"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(ctx context.Context) ([]model.Sale, error)
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	FindForUpdate(tx *gorm.DB, id uint) (*model.Sale, error)
	CreateItem(tx *gorm.DB, item *model.SaleItem) error
	FindItems(tx *gorm.DB, saleID uint) ([]model.SaleItem, error)
	SetTotal(tx *gorm.DB, id uint, total decimal.Decimal) error
	GetSalesSummary(ctx context.Context, startDate, endDate time.Time) (*SalesSummary, error)
}

// SalesSummary aggregates the sales made in a window.
type SalesSummary struct {
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return translate(tx.Omit(clause.Associations).Create(sale).Error, "sale", nil)
}

func (r *saleRepo) FindAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Order("data_venda DESC, id DESC").Find(&sales).Error
	return sales, errors.Trace(err)
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Employee").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sale, id).Error
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return &sale, nil
}

// FindForUpdate reads the sale header with a row lock held until tx ends.
func (r *saleRepo) FindForUpdate(tx *gorm.DB, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sale, id).Error
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return &sale, nil
}

func (r *saleRepo) CreateItem(tx *gorm.DB, item *model.SaleItem) error {
	return translate(tx.Omit(clause.Associations).Create(item).Error, "item of sale", item.SaleID)
}

func (r *saleRepo) FindItems(tx *gorm.DB, saleID uint) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := tx.Where("venda_id = ?", saleID).Order("id ASC").Find(&items).Error
	return items, errors.Trace(err)
}

func (r *saleRepo) SetTotal(tx *gorm.DB, id uint, total decimal.Decimal) error {
	err := tx.Model(&model.Sale{}).Where("id = ?", id).Update("total", total).Error
	return translate(err, "sale", id)
}

func (r *saleRepo) GetSalesSummary(ctx context.Context, startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*), COALESCE(SUM(total), 0)").
		Where("data_venda BETWEEN ? AND ?", startDate, endDate).
		Row().
		Scan(&summary.SaleCount, &summary.Revenue)
	if err != nil {
		return nil, errors.Trace(err)
	}
	summary.Revenue = summary.Revenue.Round(2)
	return &summary, nil
}
