package deliveries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/deliveries"
)

func (r *deliveriesRepo) Insert(ctx context.Context, rec deliveries.Record) error {
	if !rec.Status.Valid() {
		return fmt.Errorf("invalid delivery status %q", rec.Status)
	}

	var response any
	if len(rec.GatewayResponse) > 0 {
		response = []byte(rec.GatewayResponse)
	}

	country := sql.NullString{String: rec.CountryCode, Valid: rec.CountryCode != ""}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sms_deliveries
			(id, account_id, phone_number, message, country_code, cost, status, gateway_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.AccountID, rec.PhoneNumber, rec.Message, country, rec.Cost, string(rec.Status), response)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}

	return nil
}
