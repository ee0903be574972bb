package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/google/uuid"
)

// Debit never takes the balance below zero: the guard and the write are
// one statement, so concurrent debits serialize on the row. A missing
// account is reported as insufficient funds, same as a short balance.
func (r *accountsRepo) Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be > 0, got %d", amount)
	}

	var balance int64

	err := r.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance - $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND balance >= $2
		RETURNING balance
	`, id, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrInsufficientFunds
		}

		return 0, fmt.Errorf("debit balance: %w", err)
	}

	return balance, nil
}
