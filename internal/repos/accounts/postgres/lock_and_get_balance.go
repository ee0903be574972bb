package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

func (r *accountsRepo) LockAndGetBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID) (int64, error) {
	var balance int64

	err := tx.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
