package purchases

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicatePurchase = errors.New("duplicate purchase")

// Purchase is a coin credit applied to an account. Reference is unique
// across all accounts and makes crediting idempotent.
type Purchase struct {
	ID        int64
	Reference string
	AccountID uuid.UUID
	Coins     int64
	Note      string
	CreatedAt time.Time
}

type Purchases interface {
	Insert(ctx context.Context, tx *sql.Tx, p Purchase) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Purchase, error)
}
