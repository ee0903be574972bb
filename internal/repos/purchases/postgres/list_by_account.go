package purchases

import (
	"context"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/purchases"
	"github.com/google/uuid"
)

func (r *purchasesRepo) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]purchases.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reference, account_id, coins, note, created_at
		FROM credit_purchases
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make([]purchases.Purchase, 0, limit)

	for rows.Next() {
		var p purchases.Purchase

		err = rows.Scan(&p.ID, &p.Reference, &p.AccountID, &p.Coins, &p.Note, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}

		out = append(out, p)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}

	return out, nil
}
