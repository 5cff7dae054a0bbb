package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockChangeNotifier is a mock implementation of ChangeNotifier for testing
type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) NotifyChange(ctx context.Context, event domain.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventWith(action domain.ChangeAction) interface{} {
	return mock.MatchedBy(func(event domain.ChangeEvent) bool {
		return event.Action == action
	})
}

func TestCreate_DerivesTypeFromSign(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockNotifier := new(MockChangeNotifier)
	service := NewService(mockRepo, mockNotifier, zerolog.Nop())

	assignedID := uuid.New()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			tx := args.Get(1).(*domain.Transaction)
			tx.ID = assignedID
			tx.CreatedAt = time.Now()
		}).
		Return(nil)
	mockNotifier.On("NotifyChange", ctx, eventWith(domain.ChangeActionCreated)).Return(nil)

	tx, err := service.Create(ctx, TransactionInput{
		Title:  "  Groceries  ",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromFloat(-42.5),
	})

	require.NoError(t, err)
	assert.Equal(t, assignedID, tx.ID)
	assert.Equal(t, "Groceries", tx.Title)
	assert.Equal(t, domain.TransactionTypeExpense, tx.Type)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"zero amount", TransactionInput{Title: "Nothing", Date: date, Amount: decimal.Zero}},
		{"type/sign mismatch", TransactionInput{Title: "Salary", Date: date, Amount: decimal.NewFromInt(-5), Type: "income"}},
		{"unknown type", TransactionInput{Title: "Salary", Date: date, Amount: decimal.NewFromInt(5), Type: "transfer"}},
		{"empty title", TransactionInput{Title: "   ", Date: date, Amount: decimal.NewFromInt(5)}},
		{"missing date", TransactionInput{Title: "Salary", Amount: decimal.NewFromInt(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTransactionRepository)
			mockNotifier := new(MockChangeNotifier)
			service := NewService(mockRepo, mockNotifier, zerolog.Nop())

			tx, err := service.Create(context.Background(), tt.input)

			assert.Nil(t, tx)
			assert.ErrorIs(t, err, domain.ErrInvalidTransaction)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			mockNotifier.AssertNotCalled(t, "NotifyChange", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_AcceptsCapitalisedType(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	service := NewService(mockRepo, nil, zerolog.Nop())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)

	tx, err := service.Create(ctx, TransactionInput{
		Title:  "Salary",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(1000),
		Type:   "Income",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeIncome, tx.Type)
}

func TestCreate_NotificationFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockNotifier := new(MockChangeNotifier)
	service := NewService(mockRepo, mockNotifier, zerolog.Nop())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	mockNotifier.On("NotifyChange", ctx, mock.Anything).Return(errors.New("broker down"))

	tx, err := service.Create(ctx, TransactionInput{
		Title:  "Salary",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	assert.NotNil(t, tx)
	mockNotifier.AssertExpectations(t)
}

func TestCreate_RepositoryErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockNotifier := new(MockChangeNotifier)
	service := NewService(mockRepo, mockNotifier, zerolog.Nop())

	dbErr := errors.New("connection refused")
	mockRepo.On("Create", ctx, mock.Anything).Return(dbErr)

	_, err := service.Create(ctx, TransactionInput{
		Title:  "Salary",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(10),
	})

	assert.ErrorIs(t, err, dbErr)
	mockNotifier.AssertNotCalled(t, "NotifyChange", mock.Anything, mock.Anything)
}

func TestUpdate_ReplacesFieldsAndKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockNotifier := new(MockChangeNotifier)
	service := NewService(mockRepo, mockNotifier, zerolog.Nop())

	id := uuid.New()
	createdAt := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	existing := &domain.Transaction{
		ID:        id,
		Title:     "Old",
		Date:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(5),
		Type:      domain.TransactionTypeIncome,
		CreatedAt: createdAt,
	}

	mockRepo.On("GetByID", ctx, id).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		return tx.ID == id && tx.Title == "Rent" && tx.Type == domain.TransactionTypeExpense
	})).Return(nil)
	mockNotifier.On("NotifyChange", ctx, eventWith(domain.ChangeActionUpdated)).Return(nil)

	tx, err := service.Update(ctx, id, TransactionInput{
		Title:  "Rent",
		Date:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(-700),
	})

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, createdAt, tx.CreatedAt)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-700)))
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	mockNotifier := new(MockChangeNotifier)
	service := NewService(mockRepo, mockNotifier, zerolog.Nop())

	id := uuid.New()
	mockRepo.On("GetByID", ctx, id).Return(nil, domain.ErrTransactionNotFound)

	_, err := service.Update(ctx, id, TransactionInput{
		Title:  "Rent",
		Date:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(-700),
	})

	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "NotifyChange", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantNotify bool
	}{
		{"existing record", nil, true},
		{"missing record", domain.ErrTransactionNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockRepo := new(MockTransactionRepository)
			mockNotifier := new(MockChangeNotifier)
			service := NewService(mockRepo, mockNotifier, zerolog.Nop())

			id := uuid.New()
			mockRepo.On("Delete", ctx, id).Return(tt.repoErr)
			if tt.wantNotify {
				mockNotifier.On("NotifyChange", ctx, mock.MatchedBy(func(event domain.ChangeEvent) bool {
					return event.Action == domain.ChangeActionDeleted && event.TransactionID == id
				})).Return(nil)
			}

			err := service.Delete(ctx, id)

			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
				mockNotifier.AssertNotCalled(t, "NotifyChange", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				mockNotifier.AssertExpectations(t)
			}
		})
	}
}

func TestList_PassesThrough(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTransactionRepository)
	service := NewService(mockRepo, nil, zerolog.Nop())

	transactions := []*domain.Transaction{{ID: uuid.New(), Title: "a"}}
	mockRepo.On("List", ctx).Return(transactions, nil)

	got, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, transactions, got)
}
