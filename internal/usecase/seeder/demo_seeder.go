package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/cashil-backend/internal/domain"
)

// DemoTransaction defines one demo record, dated DaysAgo days before the seeding day
type DemoTransaction struct {
	Title   string
	Amount  string
	DaysAgo int
}

// DemoTransactions is the fixed demo data set
var DemoTransactions = []DemoTransaction{
	{Title: "Salary", Amount: "3200.00", DaysAgo: 6},
	{Title: "Rent", Amount: "-1100.00", DaysAgo: 6},
	{Title: "Groceries", Amount: "-86.40", DaysAgo: 4},
	{Title: "Freelance invoice", Amount: "450.00", DaysAgo: 3},
	{Title: "Electricity bill", Amount: "-72.15", DaysAgo: 2},
	{Title: "Coffee", Amount: "-3.80", DaysAgo: 0},
}

// DemoSeeder fills an empty Store with demo transactions
type DemoSeeder struct {
	repo domain.TransactionRepository
	loc  *time.Location
	now  func() time.Time
}

// NewDemoSeeder creates a new DemoSeeder instance
// Demo dates are calendar days in loc.
func NewDemoSeeder(repo domain.TransactionRepository, loc *time.Location) *DemoSeeder {
	if loc == nil {
		loc = time.Local
	}
	return &DemoSeeder{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// Seed inserts the demo data set when the Store is empty
// Returns the number of inserted transactions (0 when the Store already has data)
func (s *DemoSeeder) Seed(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	today := s.now().In(s.loc)
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)

	inserted := 0
	for _, demo := range DemoTransactions {
		amount, err := decimal.NewFromString(demo.Amount)
		if err != nil {
			return inserted, fmt.Errorf("invalid demo amount %q: %w", demo.Amount, err)
		}
		txType, err := domain.TypeForAmount(amount)
		if err != nil {
			return inserted, err
		}

		tx := &domain.Transaction{
			Title:  demo.Title,
			Date:   midnight.AddDate(0, 0, -demo.DaysAgo),
			Amount: amount,
			Type:   txType,
		}

		// Validate before creating
		if err := tx.Validate(); err != nil {
			return inserted, err
		}

		if err := s.repo.Create(ctx, tx); err != nil {
			return inserted, fmt.Errorf("failed to create demo transaction %q: %w", demo.Title, err)
		}
		inserted++
	}

	return inserted, nil
}
