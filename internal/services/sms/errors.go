package sms

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fastprodman/smscoins/internal/repos/accounts"
)

var (
	ErrGatewayRejected = errors.New("sms gateway rejected the message")
	// ErrChargeFailed means the message went out but the debit could not be
	// written. The caller is told; nothing is retried.
	ErrChargeFailed = errors.New("charge failed")
)

// InsufficientFundsError reports the computed cost against the balance it
// was checked with.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error {
	return accounts.ErrInsufficientFunds
}

// GatewayRejectedError carries the provider's own verdict. Raw is passed
// through to the caller untouched.
type GatewayRejectedError struct {
	Code    int
	Message string
	Raw     json.RawMessage
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

func (e *GatewayRejectedError) Unwrap() error {
	return ErrGatewayRejected
}
