package purchases

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/smscoins/internal/infra/pgutils"
	"github.com/fastprodman/smscoins/internal/repos/purchases"
)

func (r *purchasesRepo) Insert(ctx context.Context, tx *sql.Tx, p purchases.Purchase) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_purchases (reference, account_id, coins, note)
		VALUES ($1, $2, $3, $4)
	`, p.Reference, p.AccountID, p.Coins, p.Note)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return purchases.ErrDuplicatePurchase
		}

		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}
