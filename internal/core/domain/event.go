package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventType names a lifecycle step recorded in the audit trail.
type AccountEventType string

const (
	EventRegistered     AccountEventType = "registered"
	EventLoginSucceeded AccountEventType = "login_succeeded"
	EventLoginFailed    AccountEventType = "login_failed"
	EventUpdated        AccountEventType = "updated"
	EventDeleted        AccountEventType = "deleted"
)

// AccountEvent is an audit record. It never carries credentials.
type AccountEvent struct {
	ID         string           `json:"id"`
	Type       AccountEventType `json:"type"`
	AccountID  int64            `json:"account_id"` // 0 when the account is unknown
	Email      string           `json:"email,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewAccountEvent stamps a new event with a random id and the current UTC time.
func NewAccountEvent(t AccountEventType, accountID int64, email string) AccountEvent {
	return AccountEvent{
		ID:         uuid.NewString(),
		Type:       t,
		AccountID:  accountID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}
