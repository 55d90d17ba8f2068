package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	store *Store
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(store *Store) *GormReportRepository {
	return &GormReportRepository{store: store}
}

// SumLogoPrice sums the price of every logo
func (r *GormReportRepository) SumLogoPrice(ctx context.Context) (float64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	if err := db.Model(&models.LogoModel{}).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error; err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

// SumOrderAmount sums order totals created within rng
func (r *GormReportRepository) SumOrderAmount(ctx context.Context, rng report.DateRange) (float64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	if err := withinRange(db.Model(&models.OrderModel{}), rng).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

// OrderAmounts lists order amounts created within rng
func (r *GormReportRepository) OrderAmounts(ctx context.Context, rng report.DateRange) ([]report.OrderAmount, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.OrderModel
	if err := withinRange(db.Model(&models.OrderModel{}), rng).
		Select("created_at", "total_amount").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "")
	}

	amounts := make([]report.OrderAmount, len(rows))
	for i, row := range rows {
		amounts[i] = report.OrderAmount{CreatedAt: row.CreatedAt, Amount: row.TotalAmount}
	}
	return amounts, nil
}

// withinRange restricts created_at to [From, To); zero bounds are left open
func withinRange(q *gorm.DB, rng report.DateRange) *gorm.DB {
	if !rng.From.IsZero() {
		q = q.Where("created_at >= ?", rng.From.UTC())
	}
	if !rng.To.IsZero() {
		q = q.Where("created_at < ?", rng.To.UTC())
	}
	return q
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
