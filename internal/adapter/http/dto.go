package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/simaogato/cashil-backend/internal/usecase/ledger"
)

// transactionRequest is the body of POST and PUT /api/transactions
// amount accepts a JSON number or a string; type is optional and derived from the sign when empty.
type transactionRequest struct {
	Title  string           `json:"title" binding:"required,max=200"`
	Date   string           `json:"date" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Type   string           `json:"type"`
}

type transactionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Date      time.Time       `json:"date"`
	LocalDate string          `json:"local_date"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

type dailyPointResponse struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type extremumResponse struct {
	TransactionID *uuid.UUID      `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
}

type summaryResponse struct {
	Timezone         string               `json:"timezone"`
	Balance          decimal.Decimal      `json:"balance"`
	TotalIncome      decimal.Decimal      `json:"total_income"`
	TotalExpense     decimal.Decimal      `json:"total_expense"`
	DailySeries      []dailyPointResponse `json:"daily_series"`
	InsufficientData bool                 `json:"insufficient_data"`
	HighestIncome    extremumResponse     `json:"highest_income"`
	HighestExpense   extremumResponse     `json:"highest_expense"`
}

// Accepted date inputs, tried in order
var localDateLayouts = []string{
	domain.LocalDateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDate reads a client date
// A calendar date or an offset-less datetime is interpreted in loc; RFC 3339 keeps its own offset.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD, YYYY-MM-DDTHH:MM[:SS] or RFC 3339", domain.ErrInvalidTransaction, s)
}

func (r transactionRequest) toInput(loc *time.Location) (ledger.TransactionInput, error) {
	date, err := parseDate(r.Date, loc)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	return ledger.TransactionInput{
		Title:  r.Title,
		Date:   date,
		Amount: *r.Amount,
		Type:   r.Type,
	}, nil
}

func toTransactionResponse(tx *domain.Transaction, loc *time.Location) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Title:     tx.Title,
		Date:      tx.Date.In(loc),
		LocalDate: tx.LocalDate(loc),
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionResponses(transactions []*domain.Transaction, loc *time.Location) []transactionResponse {
	resp := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, toTransactionResponse(tx, loc))
	}
	return resp
}

func toExtremumResponse(e domain.Extremum) extremumResponse {
	resp := extremumResponse{
		Amount:      e.Amount,
		Date:        e.Date,
		Description: e.Description,
	}
	if !e.IsPlaceholder() {
		id := e.Transaction.ID
		resp.TransactionID = &id
	}
	return resp
}

func toSummaryResponse(summary *domain.Summary, loc *time.Location) summaryResponse {
	series := make([]dailyPointResponse, 0, len(summary.DailySeries))
	for _, point := range summary.DailySeries {
		series = append(series, dailyPointResponse{
			Date:    point.Date,
			Income:  point.Income,
			Expense: point.Expense,
		})
	}

	return summaryResponse{
		Timezone:         loc.String(),
		Balance:          summary.Balance,
		TotalIncome:      summary.TotalIncome,
		TotalExpense:     summary.TotalExpense,
		DailySeries:      series,
		InsufficientData: len(series) == 0,
		HighestIncome:    toExtremumResponse(summary.HighestIncome),
		HighestExpense:   toExtremumResponse(summary.HighestExpense),
	}
}
