package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the informational income/expense label persisted next to the amount
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// LocalDateLayout is the calendar-date key used for grouping and display
const LocalDateLayout = "2006-01-02"

// MaxTitleLength bounds the free-text title
const MaxTitleLength = 200

// AmountScale is the number of decimal places an amount may carry (NUMERIC(14,2) in the Store)
const AmountScale = 2

// MaxAbsAmount is the largest magnitude NUMERIC(14,2) can hold
var MaxAbsAmount = decimal.RequireFromString("999999999999.99")

var (
	// ErrTransactionNotFound is returned by the Store when no record has the requested ID
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransaction wraps every write-time validation failure
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrMalformedTransaction signals a record that cannot be aggregated (nil entry, missing date)
	ErrMalformedTransaction = errors.New("malformed transaction record")
)

// Transaction represents a single income or expense record
// Amount is signed: positive = income, negative = expense
type Transaction struct {
	ID        uuid.UUID
	Title     string
	Date      time.Time
	Amount    decimal.Decimal
	Type      TransactionType
	CreatedAt time.Time
}

// ParseTransactionType parses a type label case-insensitively ("Income", "expense", ...)
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeIncome:
		return TransactionTypeIncome, nil
	case TransactionTypeExpense:
		return TransactionTypeExpense, nil
	default:
		return "", fmt.Errorf("%w: type must be income or expense, got %q", ErrInvalidTransaction, s)
	}
}

// TypeForAmount derives the type label from the sign of the amount
func TypeForAmount(amount decimal.Decimal) (TransactionType, error) {
	switch amount.Sign() {
	case 1:
		return TransactionTypeIncome, nil
	case -1:
		return TransactionTypeExpense, nil
	default:
		return "", fmt.Errorf("%w: amount cannot be zero", ErrInvalidTransaction)
	}
}

// IsIncome reports whether the transaction counts as income (classification is by sign)
func (t *Transaction) IsIncome() bool {
	return t.Amount.Sign() > 0
}

// IsExpense reports whether the transaction counts as an expense (classification is by sign)
func (t *Transaction) IsExpense() bool {
	return t.Amount.Sign() < 0
}

// LocalDate returns the YYYY-MM-DD calendar date of the transaction as observed in loc
func (t *Transaction) LocalDate(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.Date.In(loc).Format(LocalDateLayout)
}

// Validate ensures the transaction adheres to domain rules
// CRITICAL: amount > 0 <=> type income, amount < 0 <=> type expense
func (t *Transaction) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTransaction)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title too long (max %d characters)", ErrInvalidTransaction, MaxTitleLength)
	}

	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}

	expected, err := TypeForAmount(t.Amount)
	if err != nil {
		return err
	}

	if !t.Amount.Equal(t.Amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidTransaction, t.Amount.String(), AmountScale)
	}

	if t.Amount.Abs().GreaterThan(MaxAbsAmount) {
		return fmt.Errorf("%w: amount %s exceeds %s in magnitude", ErrInvalidTransaction, t.Amount.String(), MaxAbsAmount.String())
	}

	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidTransaction)
	}

	if t.Type != expected {
		return fmt.Errorf("%w: type %s does not match the sign of amount %s", ErrInvalidTransaction, t.Type, t.Amount.String())
	}

	return nil
}
