package sms

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/fastprodman/smscoins/internal/gateway"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/fastprodman/smscoins/internal/repos/deliveries"
	"github.com/google/uuid"
)

type fakeAccounts struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	debitErr error
	debits   int
}

var _ accounts.Accounts = (*fakeAccounts)(nil)

func newFakeAccounts(id uuid.UUID, balance int64) *fakeAccounts {
	return &fakeAccounts{balances: map[uuid.UUID]int64{id: balance}}
}

func (f *fakeAccounts) balance(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balances[id]
}

func (f *fakeAccounts) Create(context.Context, accounts.Account) (bool, error) {
	return false, errors.New("not used")
}

func (f *fakeAccounts) Get(context.Context, uuid.UUID) (accounts.Account, error) {
	return accounts.Account{}, errors.New("not used")
}

func (f *fakeAccounts) GetBalance(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.balances[id]
	if !ok {
		return 0, accounts.ErrAccountNotFound
	}

	return b, nil
}

func (f *fakeAccounts) Debit(_ context.Context, id uuid.UUID, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.debitErr != nil {
		return 0, f.debitErr
	}

	b, ok := f.balances[id]
	if !ok || b < amount {
		return 0, accounts.ErrInsufficientFunds
	}

	f.balances[id] = b - amount
	f.debits++

	return b - amount, nil
}

func (f *fakeAccounts) Exists(context.Context, *sql.Tx, uuid.UUID) error {
	return errors.New("not used")
}

func (f *fakeAccounts) LockAndGetBalance(context.Context, *sql.Tx, uuid.UUID) (int64, error) {
	return 0, errors.New("not used")
}

func (f *fakeAccounts) IncreaseBalance(context.Context, *sql.Tx, uuid.UUID, int64) (int64, error) {
	return 0, errors.New("not used")
}

type fakeDeliveries struct {
	mu      sync.Mutex
	records []deliveries.Record
	err     error
}

var _ deliveries.Deliveries = (*fakeDeliveries)(nil)

func (f *fakeDeliveries) Insert(_ context.Context, rec deliveries.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.records = append(f.records, rec)

	return nil
}

func (f *fakeDeliveries) ListByAccount(_ context.Context, id uuid.UUID, limit, offset int) ([]deliveries.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []deliveries.Record

	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].AccountID == id {
			out = append(out, f.records[i])
		}
	}

	if offset >= len(out) {
		return nil, nil
	}

	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeDeliveries) all() []deliveries.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]deliveries.Record(nil), f.records...)
}

type gatewayFunc func(ctx context.Context, phone, message string) (gateway.Result, error)

func (g gatewayFunc) Send(ctx context.Context, phone, message string) (gateway.Result, error) {
	return g(ctx, phone, message)
}

func okGateway(country string) gatewayFunc {
	return func(context.Context, string, string) (gateway.Result, error) {
		return gateway.Result{
			Code:       0,
			Message:    "queued",
			CountryISO: country,
			Status:     "sent",
			Raw:        []byte(`{"error_code":0}`),
		}, nil
	}
}
