package rates

import (
	"context"

	"github.com/fastprodman/smscoins/internal/pricing"
)

type Rates interface {
	// List returns every configured prefix rate. An empty result means no
	// rates are configured.
	List(ctx context.Context) ([]pricing.Rate, error)
}
