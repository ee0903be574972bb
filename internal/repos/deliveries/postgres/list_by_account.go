package deliveries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/deliveries"
	"github.com/google/uuid"
)

func (r *deliveriesRepo) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]deliveries.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, phone_number, message, country_code,
		       cost, status, gateway_response, created_at
		FROM sms_deliveries
		WHERE account_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make([]deliveries.Record, 0, limit)

	for rows.Next() {
		var (
			rec      deliveries.Record
			country  sql.NullString
			status   string
			response []byte
		)

		err = rows.Scan(
			&rec.ID, &rec.AccountID, &rec.PhoneNumber, &rec.Message, &country,
			&rec.Cost, &status, &response, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}

		rec.CountryCode = country.String
		rec.Status = deliveries.Status(status)
		rec.GatewayResponse = response
		out = append(out, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}

	return out, nil
}
