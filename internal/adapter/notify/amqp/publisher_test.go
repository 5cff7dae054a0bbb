package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChannel is a mock implementation of the AMQP channel for testing
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "transactions.created", RoutingKey(domain.ChangeActionCreated))
	assert.Equal(t, "transactions.updated", RoutingKey(domain.ChangeActionUpdated))
	assert.Equal(t, "transactions.deleted", RoutingKey(domain.ChangeActionDeleted))
}

func TestPublisher_NotifyChange(t *testing.T) {
	ch := new(MockChannel)
	publisher := &Publisher{channel: ch, exchange: "cashil.events", log: zerolog.Nop()}
	event := domain.NewChangeEvent(domain.ChangeActionCreated, uuid.New())

	ch.On("PublishWithContext", mock.Anything, "cashil.events", "transactions.created", false, false,
		mock.MatchedBy(func(msg amqp091.Publishing) bool {
			var got domain.ChangeEvent
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.ContentType == "application/json" &&
				msg.DeliveryMode == amqp091.Persistent &&
				got.TransactionID == event.TransactionID &&
				got.Action == domain.ChangeActionCreated
		}),
	).Return(nil)

	require.NoError(t, publisher.NotifyChange(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestPublisher_NotifyChange_PublishError(t *testing.T) {
	ch := new(MockChannel)
	publisher := &Publisher{channel: ch, exchange: "cashil.events", log: zerolog.Nop()}

	publishErr := errors.New("channel closed")
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, false, false, mock.Anything).Return(publishErr)

	err := publisher.NotifyChange(context.Background(), domain.NewChangeEvent(domain.ChangeActionDeleted, uuid.New()))
	assert.ErrorIs(t, err, publishErr)
}

func TestPublisher_Close(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(nil)

	publisher := &Publisher{channel: ch, log: zerolog.Nop()}
	assert.NoError(t, publisher.Close())
	ch.AssertExpectations(t)
}
