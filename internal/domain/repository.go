package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create inserts a new transaction
	// The Store assigns ID and CreatedAt and writes them back into tx
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID
	// Returns ErrTransactionNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// List retrieves every transaction, most recent first (date desc, created_at desc)
	List(ctx context.Context) ([]*Transaction, error)

	// Update replaces every mutable field of the transaction identified by tx.ID
	// Returns ErrTransactionNotFound if it does not exist
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes the transaction
	// Returns ErrTransactionNotFound if it does not exist
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of transactions
	Count(ctx context.Context) (int, error)
}

// ChangeNotifier receives an event after every successful mutation of the Store
// Consumers treat it as "invalidate and reload"
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, event ChangeEvent) error
}
