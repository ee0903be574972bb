package deliveries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusFailed:
		return true
	default:
		return false
	}
}

// Record is one delivery attempt. Records are append-only.
type Record struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	PhoneNumber     string
	Message         string
	CountryCode     string // empty when the gateway did not report one
	Cost            int64
	Status          Status
	GatewayResponse json.RawMessage
	CreatedAt       time.Time
}

type Deliveries interface {
	Insert(ctx context.Context, rec Record) error
	// ListByAccount returns the account's records newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Record, error)
}
