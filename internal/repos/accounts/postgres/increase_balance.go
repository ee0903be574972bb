package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

func (r *accountsRepo) IncreaseBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be > 0, got %d", amount)
	}

	var balance int64

	err := tx.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`, id, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("increase balance: %w", err)
	}

	return balance, nil
}
