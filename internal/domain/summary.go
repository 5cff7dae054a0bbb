package domain

import (
	"github.com/shopspring/decimal"
)

// Placeholder values reported when no transaction qualifies as an extremum
const (
	PlaceholderDate        = "-"
	PlaceholderDescription = "N/A"
)

// Totals holds the running balance and the per-class sums
// TotalExpense is reported as a positive magnitude
type Totals struct {
	Balance      decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// DailyPoint is one entry of the chart series: the sums for a single local calendar date
type DailyPoint struct {
	Date    string // YYYY-MM-DD in the observer's time zone
	Income  decimal.Decimal
	Expense decimal.Decimal // positive magnitude
}

// Extremum is the highest transaction of a class, or a placeholder when none exists
type Extremum struct {
	Transaction *Transaction // nil for the placeholder
	Amount      decimal.Decimal
	Date        string
	Description string
}

// Extrema pairs the highest income with the highest expense
type Extrema struct {
	HighestIncome  Extremum
	HighestExpense Extremum
}

// Summary is the derived view model recomputed from the full transaction list
// Not persisted
type Summary struct {
	Totals
	DailySeries []DailyPoint
	Extrema
}

// PlaceholderExtremum returns the sentinel consumed by presentation when no transaction qualifies
func PlaceholderExtremum() Extremum {
	return Extremum{
		Amount:      decimal.Zero,
		Date:        PlaceholderDate,
		Description: PlaceholderDescription,
	}
}

// IsPlaceholder reports whether the extremum stands in for a missing transaction
func (e Extremum) IsPlaceholder() bool {
	return e.Transaction == nil
}
