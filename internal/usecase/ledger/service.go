package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/cashil-backend/internal/domain"
)

// TransactionInput represents the client-supplied fields of a transaction
type TransactionInput struct {
	Title  string
	Date   time.Time
	Amount decimal.Decimal
	Type   string // Optional: derived from the sign of Amount when empty
}

// Service handles create/read/update/delete of transactions
type Service struct {
	TransactionRepo domain.TransactionRepository
	Notifier        domain.ChangeNotifier
	logger          zerolog.Logger
}

// NewService creates a new ledger Service instance
// A nil notifier disables change notifications.
func NewService(transactionRepo domain.TransactionRepository, notifier domain.ChangeNotifier, logger zerolog.Logger) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		Notifier:        notifier,
		logger:          logger.With().Str("component", "ledger").Logger(),
	}
}

// Create records a new transaction
// Logic:
//  1. Build the transaction from input (type derived from sign when omitted)
//  2. Validate (rejects zero amounts and type/sign mismatches)
//  3. Save using TransactionRepo.Create (Store assigns ID and CreatedAt)
//  4. Publish a created event
func (s *Service) Create(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	tx, err := buildTransaction(input)
	if err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.notify(ctx, domain.ChangeActionCreated, tx.ID)
	return tx, nil
}

// Get retrieves a single transaction
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.TransactionRepo.GetByID(ctx, id)
}

// List retrieves every transaction, most recent first
func (s *Service) List(ctx context.Context) ([]*domain.Transaction, error) {
	return s.TransactionRepo.List(ctx)
}

// Update replaces every mutable field of an existing transaction
// Returns domain.ErrTransactionNotFound when id does not exist.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	tx, err := buildTransaction(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt

	if err := s.TransactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.notify(ctx, domain.ChangeActionUpdated, tx.ID)
	return tx, nil
}

// Delete removes a transaction
// Returns domain.ErrTransactionNotFound when id does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.TransactionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, domain.ChangeActionDeleted, id)
	return nil
}

func buildTransaction(input TransactionInput) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		Title:  strings.TrimSpace(input.Title),
		Date:   input.Date,
		Amount: input.Amount,
	}

	if strings.TrimSpace(input.Type) == "" {
		txType, err := domain.TypeForAmount(input.Amount)
		if err != nil {
			return nil, err
		}
		tx.Type = txType
	} else {
		txType, err := domain.ParseTransactionType(input.Type)
		if err != nil {
			return nil, err
		}
		tx.Type = txType
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// notify publishes the change; a failed notification never fails the mutation
func (s *Service) notify(ctx context.Context, action domain.ChangeAction, id uuid.UUID) {
	if s.Notifier == nil {
		return
	}

	if err := s.Notifier.NotifyChange(ctx, domain.NewChangeEvent(action, id)); err != nil {
		s.logger.Warn().Err(err).
			Str("action", string(action)).
			Str("transaction_id", id.String()).
			Msg("failed to publish change event")
	}
}
