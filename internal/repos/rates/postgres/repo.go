package rates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/smscoins/internal/pricing"
	"github.com/fastprodman/smscoins/internal/repos/rates"
)

var _ rates.Rates = (*ratesRepo)(nil)

type ratesRepo struct{ db *sql.DB }

func New(db *sql.DB) *ratesRepo {
	return &ratesRepo{db: db}
}

func (r *ratesRepo) List(ctx context.Context) ([]pricing.Rate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT prefix, coins_per_part, country
		FROM sms_rates
		ORDER BY prefix
	`)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []pricing.Rate

	for rows.Next() {
		var rate pricing.Rate

		err = rows.Scan(&rate.Prefix, &rate.CoinsPerPart, &rate.Country)
		if err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}

		out = append(out, rate)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	return out, nil
}
