package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeAction names the mutation that produced a ChangeEvent
type ChangeAction string

const (
	ChangeActionCreated ChangeAction = "created"
	ChangeActionUpdated ChangeAction = "updated"
	ChangeActionDeleted ChangeAction = "deleted"
)

// ChangeEvent tells subscribers that the transaction list changed and must be reloaded
type ChangeEvent struct {
	Action        ChangeAction `json:"action"`
	TransactionID uuid.UUID    `json:"transaction_id"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

// NewChangeEvent creates a ChangeEvent stamped with the current time
func NewChangeEvent(action ChangeAction, id uuid.UUID) ChangeEvent {
	return ChangeEvent{
		Action:        action,
		TransactionID: id,
		OccurredAt:    time.Now().UTC(),
	}
}
