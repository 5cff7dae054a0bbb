package export

import (
	"fmt"
	"io"
	"time"

	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook
const (
	SheetTransactions = "Transactions"
	SheetDaily        = "Daily"
	SheetSummary      = "Summary"
)

// ContentType is the MIME type of the exported workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the download name for an export generated at now
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.xlsx", now.Format("20060102"))
}

// WriteWorkbook renders the transactions and their summary as an XLSX workbook
// Dates are written as local calendar dates in loc.
func WriteWorkbook(w io.Writer, transactions []*domain.Transaction, summary *domain.Summary, loc *time.Location) error {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the transaction list
	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTransactions(f, transactions, loc); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetDaily); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetDaily, err)
	}
	if err := writeDaily(f, summary.DailySeries); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, transactions []*domain.Transaction, loc *time.Location) error {
	rows := [][]interface{}{{"Title", "Date", "Type", "Amount"}}
	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		rows = append(rows, []interface{}{
			tx.Title,
			tx.LocalDate(loc),
			string(tx.Type),
			tx.Amount.InexactFloat64(),
		})
	}

	if err := setRows(f, SheetTransactions, rows); err != nil {
		return err
	}

	f.SetColWidth(SheetTransactions, "A", "A", 30)
	f.SetColWidth(SheetTransactions, "B", "C", 12)
	f.SetColWidth(SheetTransactions, "D", "D", 14)
	return nil
}

func writeDaily(f *excelize.File, series []domain.DailyPoint) error {
	rows := [][]interface{}{{"Date", "Income", "Expense"}}
	for _, point := range series {
		rows = append(rows, []interface{}{
			point.Date,
			point.Income.InexactFloat64(),
			point.Expense.InexactFloat64(),
		})
	}

	if err := setRows(f, SheetDaily, rows); err != nil {
		return err
	}

	f.SetColWidth(SheetDaily, "A", "C", 14)
	return nil
}

func writeSummary(f *excelize.File, summary *domain.Summary) error {
	rows := [][]interface{}{
		{"Metric", "Amount", "Date", "Description"},
		{"Balance", summary.Balance.InexactFloat64()},
		{"Total income", summary.TotalIncome.InexactFloat64()},
		{"Total expense", summary.TotalExpense.InexactFloat64()},
		extremumRow("Highest income", summary.HighestIncome),
		extremumRow("Highest expense", summary.HighestExpense),
	}

	if err := setRows(f, SheetSummary, rows); err != nil {
		return err
	}

	f.SetColWidth(SheetSummary, "A", "A", 18)
	f.SetColWidth(SheetSummary, "B", "C", 14)
	f.SetColWidth(SheetSummary, "D", "D", 30)
	return nil
}

func extremumRow(label string, e domain.Extremum) []interface{} {
	return []interface{}{label, e.Amount.InexactFloat64(), e.Date, e.Description}
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
