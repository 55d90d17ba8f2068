package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/report"
	"go.uber.org/zap"
)

// TotalsResponse is the dashboard headline
type TotalsResponse struct {
	TotalPrice  float64 `json:"totalPrice"`
	TotalAmount float64 `json:"totalAmount"`
}

// MonthlySalesResponse is one point of the monthly sales series
type MonthlySalesResponse struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

// SalesStatsResponse represents order revenue over the reporting periods
type SalesStatsResponse struct {
	WeeklySales  float64                `json:"weeklySales"`
	MonthlySales float64                `json:"monthlySales"`
	YearlySales  float64                `json:"yearlySales"`
	TotalSales   float64                `json:"totalSales"`
	SalesByMonth []MonthlySalesResponse `json:"salesByMonth"`
}

// ReportService provides dashboard aggregates
type ReportService struct {
	reportRepo report.ReportRepository
	now        func() time.Time
	logger     *zap.Logger
}

// NewReportService creates a new ReportService. A nil now uses time.Now.
func NewReportService(reportRepo report.ReportRepository, now func() time.Time, logger *zap.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		reportRepo: reportRepo,
		now:        now,
		logger:     logger,
	}
}

// Totals sums logo prices and order amounts over all time
func (s *ReportService) Totals(ctx context.Context) (*TotalsResponse, error) {
	logoTotal, err := s.reportRepo.SumLogoPrice(ctx)
	if err != nil {
		return nil, err
	}
	orderTotal, err := s.reportRepo.SumOrderAmount(ctx, report.DateRange{})
	if err != nil {
		return nil, err
	}

	return &TotalsResponse{
		TotalPrice:  decimal.NewFromFloat(logoTotal).Round(2).InexactFloat64(),
		TotalAmount: decimal.NewFromFloat(orderTotal).Round(2).InexactFloat64(),
	}, nil
}

// SalesStats sums order amounts for the trailing week, the current month, the current year and all time,
// plus a twelve-month series for the current year
func (s *ReportService) SalesStats(ctx context.Context) (*SalesStatsResponse, error) {
	now := s.now()
	week, month, year := report.Periods(now)

	var stats report.SalesStats
	ranges := []struct {
		r   report.DateRange
		dst *decimal.Decimal
	}{
		{week, &stats.Weekly},
		{month, &stats.Monthly},
		{year, &stats.Yearly},
		{report.DateRange{}, &stats.Total},
	}
	for _, p := range ranges {
		sum, err := s.reportRepo.SumOrderAmount(ctx, p.r)
		if err != nil {
			return nil, err
		}
		*p.dst = decimal.NewFromFloat(sum).Round(2)
	}

	amounts, err := s.reportRepo.OrderAmounts(ctx, year)
	if err != nil {
		return nil, err
	}
	stats.ByMonth = report.BucketByMonth(amounts, now.Year(), now.Location())

	s.logger.Debug("Sales stats computed",
		zap.Time("now", now),
		zap.Int("orders_this_year", len(amounts)),
	)

	return toSalesStatsResponse(stats), nil
}

func toSalesStatsResponse(stats report.SalesStats) *SalesStatsResponse {
	byMonth := make([]MonthlySalesResponse, len(stats.ByMonth))
	for i, m := range stats.ByMonth {
		byMonth[i] = MonthlySalesResponse{Month: m.Month, Sales: m.Sales.InexactFloat64()}
	}
	return &SalesStatsResponse{
		WeeklySales:  stats.Weekly.InexactFloat64(),
		MonthlySales: stats.Monthly.InexactFloat64(),
		YearlySales:  stats.Yearly.InexactFloat64(),
		TotalSales:   stats.Total.InexactFloat64(),
		SalesByMonth: byMonth,
	}
}
