package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashil-backend/internal/domain"
)

// Summarize derives the complete Summary from a snapshot of transactions
// Logic:
//  1. Totals over the whole list
//  2. Daily series grouped by local calendar date in loc
//  3. Highest income / highest expense (first seen wins ties)
//
// The input slice and its transactions are never mutated.
// Classification is by sign only; the stored Type label is ignored.
func Summarize(transactions []*domain.Transaction, loc *time.Location) (*domain.Summary, error) {
	totals, err := ComputeTotals(transactions)
	if err != nil {
		return nil, err
	}

	series, err := BuildDailySeries(transactions, loc)
	if err != nil {
		return nil, err
	}

	extrema, err := FindExtrema(transactions, loc)
	if err != nil {
		return nil, err
	}

	return &domain.Summary{
		Totals:      totals,
		DailySeries: series,
		Extrema:     extrema,
	}, nil
}

// ComputeTotals calculates balance, total income and total expense
// Logic:
//   - Balance: Sum of every amount (sign included)
//   - TotalIncome: Sum of amounts > 0
//   - TotalExpense: Sum of |amount| for amounts < 0
//
// Zero amounts contribute to neither class.
func ComputeTotals(transactions []*domain.Transaction) (domain.Totals, error) {
	totals := domain.Totals{
		Balance:      decimal.Zero,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for i, tx := range transactions {
		if err := checkRecord(i, tx); err != nil {
			return domain.Totals{}, err
		}

		totals.Balance = totals.Balance.Add(tx.Amount)
		if tx.IsIncome() {
			totals.TotalIncome = totals.TotalIncome.Add(tx.Amount)
		} else if tx.IsExpense() {
			totals.TotalExpense = totals.TotalExpense.Add(tx.Amount.Abs())
		}
	}

	return totals, nil
}

// BuildDailySeries groups transactions by the local calendar date observed in loc
// Logic:
//  1. Key each transaction by YYYY-MM-DD of Date.In(loc) (NOT the UTC date)
//  2. Income = Sum of positive amounts, Expense = Sum of |negative amounts| per key
//  3. Sort ascending by calendar date
//
// Days without transactions are absent (no gap filling). Empty input yields an empty series.
func BuildDailySeries(transactions []*domain.Transaction, loc *time.Location) ([]domain.DailyPoint, error) {
	if loc == nil {
		loc = time.Local
	}

	byDate := make(map[string]*domain.DailyPoint)
	for i, tx := range transactions {
		if err := checkRecord(i, tx); err != nil {
			return nil, err
		}

		key := tx.LocalDate(loc)
		point, ok := byDate[key]
		if !ok {
			point = &domain.DailyPoint{
				Date:    key,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byDate[key] = point
		}

		if tx.IsIncome() {
			point.Income = point.Income.Add(tx.Amount)
		} else if tx.IsExpense() {
			point.Expense = point.Expense.Add(tx.Amount.Abs())
		}
	}

	series := make([]domain.DailyPoint, 0, len(byDate))
	for _, point := range byDate {
		series = append(series, *point)
	}

	// YYYY-MM-DD keys sort chronologically as strings
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	return series, nil
}

// FindExtrema finds the highest income and the highest expense
// Strictly greater comparisons keep the first transaction seen on ties.
// A class with no qualifying transaction reports domain.PlaceholderExtremum().
func FindExtrema(transactions []*domain.Transaction, loc *time.Location) (domain.Extrema, error) {
	if loc == nil {
		loc = time.Local
	}

	var highestIncome, highestExpense *domain.Transaction
	for i, tx := range transactions {
		if err := checkRecord(i, tx); err != nil {
			return domain.Extrema{}, err
		}

		if tx.IsIncome() {
			if highestIncome == nil || tx.Amount.GreaterThan(highestIncome.Amount) {
				highestIncome = tx
			}
		} else if tx.IsExpense() {
			if highestExpense == nil || tx.Amount.Abs().GreaterThan(highestExpense.Amount.Abs()) {
				highestExpense = tx
			}
		}
	}

	return domain.Extrema{
		HighestIncome:  toExtremum(highestIncome, loc),
		HighestExpense: toExtremum(highestExpense, loc),
	}, nil
}

// toExtremum converts the winning transaction into an Extremum with a positive amount
func toExtremum(tx *domain.Transaction, loc *time.Location) domain.Extremum {
	if tx == nil {
		return domain.PlaceholderExtremum()
	}

	return domain.Extremum{
		Transaction: tx,
		Amount:      tx.Amount.Abs(),
		Date:        tx.LocalDate(loc),
		Description: tx.Title,
	}
}

// checkRecord fails fast on records that cannot be aggregated
func checkRecord(index int, tx *domain.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: entry %d is nil", domain.ErrMalformedTransaction, index)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: entry %d (%s) has no date", domain.ErrMalformedTransaction, index, tx.ID)
	}
	return nil
}
