package deliveries

import (
	"database/sql"

	"github.com/fastprodman/smscoins/internal/repos/deliveries"
)

var _ deliveries.Deliveries = (*deliveriesRepo)(nil)

type deliveriesRepo struct{ db *sql.DB }

func New(db *sql.DB) *deliveriesRepo {
	return &deliveriesRepo{db: db}
}
