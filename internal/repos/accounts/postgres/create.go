package accounts

import (
	"context"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/accounts"
)

func (r *accountsRepo) Create(ctx context.Context, acc accounts.Account) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, display_name, balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (id) DO NOTHING
	`, acc.ID, acc.Email, acc.DisplayName)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected == 1, nil
}
