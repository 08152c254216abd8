package repository

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-retail-store/internal/model"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(ctx context.Context) ([]model.StockMovement, error)
	FindByProduct(ctx context.Context, productID uint) ([]model.StockMovement, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats summarises the catalog.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

// LowStockThreshold is the stock level below which a product counts as low.
const LowStockThreshold = 10

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return translate(tx.Create(movement).Error, "stock movement for product", movement.ProductID)
}

func (r *movementRepo) FindAll(ctx context.Context) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").Order("data_movimentacao DESC, id DESC").Find(&movements).Error
	return movements, errors.Trace(err)
}

func (r *movementRepo) FindByProduct(ctx context.Context, productID uint) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", productID).
		Order("id ASC").
		Find(&movements).Error
	return movements, errors.Trace(err)
}

func (r *movementRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(data_movimentacao) as date,
			COALESCE(SUM(CASE WHEN tipo = ? THEN quantidade ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN tipo = ? THEN quantidade ELSE 0 END), 0) as outbound
		`, model.Inbound, model.Outbound).
		Where("data_movimentacao BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(data_movimentacao)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, errors.Trace(err)
		}
		// postgres hands DATE back as a timestamp
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		results = append(results, data)
	}

	return results, errors.Trace(rows.Err())
}

func (r *movementRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, errors.Trace(err)
	}
	if err := db.Model(&model.Product{}).Where("estoque < ?", LowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, errors.Trace(err)
	}
	err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(preco * estoque), 0)").
		Row().
		Scan(&stats.TotalValuation)
	if err != nil {
		return nil, errors.Trace(err)
	}
	stats.TotalValuation = stats.TotalValuation.Round(2)

	return &stats, nil
}
