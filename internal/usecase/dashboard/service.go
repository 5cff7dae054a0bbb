package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/simaogato/cashil-backend/internal/usecase/aggregator"
)

// Snapshot pairs the transaction list with the summary derived from it
type Snapshot struct {
	Transactions []*domain.Transaction
	Summary      *domain.Summary
	Location     *time.Location
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	TransactionRepo domain.TransactionRepository
	DefaultLocation *time.Location
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(transactionRepo domain.TransactionRepository, defaultLocation *time.Location) *DashboardService {
	if defaultLocation == nil {
		defaultLocation = time.Local
	}
	return &DashboardService{
		TransactionRepo: transactionRepo,
		DefaultLocation: defaultLocation,
	}
}

// GetSummary derives the summary for the observer's time zone
// Logic:
//  1. Load the current full transaction set from the Store
//  2. Re-derive everything from scratch (no incremental model)
//
// A nil loc falls back to DefaultLocation.
func (s *DashboardService) GetSummary(ctx context.Context, loc *time.Location) (*domain.Summary, error) {
	snapshot, err := s.GetSnapshot(ctx, loc)
	if err != nil {
		return nil, err
	}
	return snapshot.Summary, nil
}

// GetSnapshot returns the transaction list together with its summary
func (s *DashboardService) GetSnapshot(ctx context.Context, loc *time.Location) (*Snapshot, error) {
	if loc == nil {
		loc = s.DefaultLocation
	}

	transactions, err := s.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	summary, err := aggregator.Summarize(transactions, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	return &Snapshot{
		Transactions: transactions,
		Summary:      summary,
		Location:     loc,
	}, nil
}
