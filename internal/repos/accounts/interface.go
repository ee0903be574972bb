package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountNotFound   = errors.New("account not found")
)

// Account is a coin holder. Balance is never negative.
type Account struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Balance     int64
	CreatedAt   time.Time
}

type Accounts interface {
	// Create inserts acc with a zero balance. It reports false when the
	// account already existed; the existing row is left untouched.
	Create(ctx context.Context, acc Account) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (Account, error)
	GetBalance(ctx context.Context, id uuid.UUID) (int64, error)
	// Debit subtracts amount only if the balance covers it, in a single
	// statement, and returns the new balance.
	Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)

	Exists(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	LockAndGetBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID) (int64, error)
	IncreaseBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount int64) (int64, error)
}
