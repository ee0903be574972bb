package purchases

import (
	"database/sql"

	"github.com/fastprodman/smscoins/internal/repos/purchases"
)

var _ purchases.Purchases = (*purchasesRepo)(nil)

type purchasesRepo struct{ db *sql.DB }

func New(db *sql.DB) *purchasesRepo {
	return &purchasesRepo{db: db}
}
