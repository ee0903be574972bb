// Package sms runs a submission through pricing, the balance gate, the
// gateway call, the debit and the history write.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/smscoins/internal/gateway"
	"github.com/fastprodman/smscoins/internal/pricing"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/fastprodman/smscoins/internal/repos/deliveries"
	"github.com/google/uuid"
)

// Gateway is the outbound provider. *gateway.Client satisfies it.
type Gateway interface {
	Send(ctx context.Context, phone, message string) (gateway.Result, error)
}

type Service struct {
	accounts   accounts.Accounts
	deliveries deliveries.Deliveries
	gateway    Gateway
	table      *pricing.Table
	newID      func() uuid.UUID
}

func New(acc accounts.Accounts, dlv deliveries.Deliveries, gw Gateway, table *pricing.Table) *Service {
	return &Service{
		accounts:   acc,
		deliveries: dlv,
		gateway:    gw,
		table:      table,
		newID:      uuid.New,
	}
}

// Receipt describes a delivered and billed message.
type Receipt struct {
	DeliveryID     uuid.UUID
	Phone          string
	Parts          int
	Cost           int64
	Country        string
	RemainingCoins int64
}

// Send validates, prices, delivers and bills one message.
//
// Rejections before the gateway call have no side effects. A gateway
// rejection writes a failed record and charges nothing. A gateway that
// cannot be reached writes nothing. After a successful send the debit must
// succeed or the request fails; the history write is best effort.
func (s *Service) Send(ctx context.Context, accountID uuid.UUID, rawPhone, message string) (Receipt, error) {
	q, err := s.table.Quote(rawPhone, message)
	if err != nil {
		return Receipt{}, fmt.Errorf("validate: %w", err)
	}

	balance, err := s.accounts.GetBalance(ctx, accountID)
	if err != nil {
		return Receipt{}, fmt.Errorf("load balance: %w", err)
	}

	if balance < q.Cost {
		return Receipt{}, &InsufficientFundsError{Required: q.Cost, Available: balance}
	}

	res, err := s.gateway.Send(ctx, q.Phone, message)
	if err != nil {
		return Receipt{}, fmt.Errorf("deliver: %w", err)
	}

	// The message is out of our hands from here on; finish the bookkeeping
	// even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if !res.OK() {
		s.record(ctx, deliveries.Record{
			AccountID:       accountID,
			PhoneNumber:     q.Phone,
			Message:         message,
			Status:          deliveries.StatusFailed,
			GatewayResponse: res.Raw,
		})

		return Receipt{}, &GatewayRejectedError{Code: res.Code, Message: res.Message, Raw: res.Raw}
	}

	remaining, err := s.accounts.Debit(ctx, accountID, q.Cost)
	if err != nil {
		slog.ErrorContext(ctx, "sms sent but not billed",
			"account_id", accountID, "phone", q.Phone, "cost", q.Cost, "error", err)

		if errors.Is(err, accounts.ErrInsufficientFunds) {
			available, berr := s.accounts.GetBalance(ctx, accountID)
			if berr != nil {
				available = 0
			}

			return Receipt{}, &InsufficientFundsError{Required: q.Cost, Available: available}
		}

		return Receipt{}, fmt.Errorf("%w: %w", ErrChargeFailed, err)
	}

	id := s.record(ctx, deliveries.Record{
		AccountID:       accountID,
		PhoneNumber:     q.Phone,
		Message:         message,
		CountryCode:     res.CountryISO,
		Cost:            q.Cost,
		Status:          deliveries.StatusSent,
		GatewayResponse: res.Raw,
	})

	return Receipt{
		DeliveryID:     id,
		Phone:          q.Phone,
		Parts:          q.Parts,
		Cost:           q.Cost,
		Country:        res.CountryISO,
		RemainingCoins: remaining,
	}, nil
}

// record writes rec and only logs on failure.
func (s *Service) record(ctx context.Context, rec deliveries.Record) uuid.UUID {
	rec.ID = s.newID()

	err := s.deliveries.Insert(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "write delivery record",
			"account_id", rec.AccountID, "status", rec.Status, "cost", rec.Cost, "error", err)
	}

	return rec.ID
}

// Quote prices a submission without touching any account.
func (s *Service) Quote(rawPhone, message string) (pricing.Quote, error) {
	q, err := s.table.Quote(rawPhone, message)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("validate: %w", err)
	}

	return q, nil
}

// Rates returns the active pricing table.
func (s *Service) Rates() *pricing.Table {
	return s.table
}

// History returns the account's delivery records, newest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]deliveries.Record, error) {
	recs, err := s.deliveries.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}

	return recs, nil
}
