package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/google/uuid"
)

func (r *accountsRepo) Get(ctx context.Context, id uuid.UUID) (accounts.Account, error) {
	var acc accounts.Account

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, balance, created_at
		FROM accounts
		WHERE id = $1
	`, id).Scan(&acc.ID, &acc.Email, &acc.DisplayName, &acc.Balance, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Account{}, accounts.ErrAccountNotFound
		}

		return accounts.Account{}, fmt.Errorf("get account: %w", err)
	}

	return acc, nil
}
