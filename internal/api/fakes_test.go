package api

import (
	"context"
	"errors"
	"sync"

	"github.com/fastprodman/smscoins/internal/identity"
	"github.com/fastprodman/smscoins/internal/pricing"
	"github.com/fastprodman/smscoins/internal/ratelimit"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/fastprodman/smscoins/internal/repos/deliveries"
	"github.com/fastprodman/smscoins/internal/repos/purchases"
	"github.com/fastprodman/smscoins/internal/services/sms"
	"github.com/fastprodman/smscoins/internal/services/wallet"
	"github.com/google/uuid"
)

type fakeVerifier map[string]identity.Identity

func (f fakeVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	id, ok := f[token]
	if !ok {
		return identity.Identity{}, identity.ErrInvalidToken
	}

	return id, nil
}

type fakeSMS struct {
	mu    sync.Mutex
	calls int
	send  func(accountID uuid.UUID, phone, message string) (sms.Receipt, error)
	table *pricing.Table
	recs  []deliveries.Record
}

func (f *fakeSMS) Send(_ context.Context, accountID uuid.UUID, phone, message string) (sms.Receipt, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	return f.send(accountID, phone, message)
}

func (f *fakeSMS) Quote(phone, message string) (pricing.Quote, error) {
	return f.table.Quote(phone, message)
}

func (f *fakeSMS) Rates() *pricing.Table {
	return f.table
}

func (f *fakeSMS) History(_ context.Context, _ uuid.UUID, limit, offset int) ([]deliveries.Record, error) {
	if offset >= len(f.recs) {
		return nil, nil
	}

	out := f.recs[offset:]
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeSMS) sendCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

type fakeWallet struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]accounts.Account
	refs     map[string]struct{}
	pingErr  error
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{accounts: map[uuid.UUID]accounts.Account{}, refs: map[string]struct{}{}}
}

func (f *fakeWallet) EnsureAccount(_ context.Context, acc accounts.Account) (accounts.Account, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.accounts[acc.ID]; ok {
		return existing, false, nil
	}

	acc.Balance = 0
	f.accounts[acc.ID] = acc

	return acc, true, nil
}

func (f *fakeWallet) GetAccount(_ context.Context, id uuid.UUID) (accounts.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return accounts.Account{}, accounts.ErrAccountNotFound
	}

	return acc, nil
}

func (f *fakeWallet) ApplyCredit(_ context.Context, c wallet.Credit) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c.Coins <= 0 || c.Reference == "" {
		return 0, wallet.ErrInvalidCredit
	}

	acc, ok := f.accounts[c.AccountID]
	if !ok {
		return 0, accounts.ErrAccountNotFound
	}

	if _, dup := f.refs[c.Reference]; dup {
		return 0, purchases.ErrDuplicatePurchase
	}

	f.refs[c.Reference] = struct{}{}
	acc.Balance += c.Coins
	f.accounts[c.AccountID] = acc

	return acc.Balance, nil
}

func (f *fakeWallet) ListPurchases(context.Context, uuid.UUID, int, int) ([]purchases.Purchase, error) {
	return nil, nil
}

func (f *fakeWallet) Ping(context.Context) error {
	return f.pingErr
}

var errBoom = errors.New("boom")

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errBoom
}
