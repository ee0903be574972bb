package wallet

import (
	"errors"

	"github.com/google/uuid"
)

// Credit is an administrative top-up. Reference identifies the payment
// and can be applied only once.
type Credit struct {
	AccountID uuid.UUID
	Coins     int64
	Reference string
	Note      string
}

var ErrInvalidCredit = errors.New("invalid credit")
