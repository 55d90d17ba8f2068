package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabels are the short month names used for the monthly sales series
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthlySales is one point of the monthly sales series
type MonthlySales struct {
	Month string
	Sales decimal.Decimal
}

// SalesStats aggregates order revenue over periods anchored at a reference time
type SalesStats struct {
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
	Total   decimal.Decimal
	ByMonth []MonthlySales
}

// DateRange is a half-open interval [From, To). A zero bound is unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// OrderAmount is a single order's amount at its creation time
type OrderAmount struct {
	CreatedAt time.Time
	Amount    float64
}

// Periods returns the trailing-week, calendar-month and calendar-year ranges for now
func Periods(now time.Time) (week, month, year DateRange) {
	loc := now.Location()
	week = DateRange{From: now.AddDate(0, 0, -7), To: now}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	month = DateRange{From: monthStart, To: monthStart.AddDate(0, 1, 0)}
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	year = DateRange{From: yearStart, To: yearStart.AddDate(1, 0, 0)}
	return week, month, year
}

// BucketByMonth sums amounts into twelve calendar-month points in loc.
// Amounts outside year are ignored.
func BucketByMonth(amounts []OrderAmount, year int, loc *time.Location) []MonthlySales {
	var sums [12]decimal.Decimal
	for _, a := range amounts {
		t := a.CreatedAt.In(loc)
		if t.Year() != year {
			continue
		}
		idx := int(t.Month()) - 1
		sums[idx] = sums[idx].Add(decimal.NewFromFloat(a.Amount))
	}

	series := make([]MonthlySales, 12)
	for i := range series {
		series[i] = MonthlySales{Month: MonthLabels[i], Sales: sums[i].Round(2)}
	}
	return series
}

// ReportRepository defines the aggregate queries behind the dashboard
type ReportRepository interface {
	// SumLogoPrice sums the price of every logo, 0 when there are none
	SumLogoPrice(ctx context.Context) (float64, error)

	// SumOrderAmount sums order totals created within r, 0 when there are none
	SumOrderAmount(ctx context.Context, r DateRange) (float64, error)

	// OrderAmounts lists order amounts created within r
	OrderAmounts(ctx context.Context, r DateRange) ([]OrderAmount, error)
}
