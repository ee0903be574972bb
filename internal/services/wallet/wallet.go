// Package wallet owns account profiles and the administrative credit path.
package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fastprodman/smscoins/internal/infra/pgutils"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/smscoins/internal/repos/accounts/postgres"
	"github.com/fastprodman/smscoins/internal/repos/purchases"
	pgpurchases "github.com/fastprodman/smscoins/internal/repos/purchases/postgres"
	"github.com/google/uuid"
)

const maxReferenceLength = 128

type Service struct {
	db        *sql.DB
	accounts  accounts.Accounts
	purchases purchases.Purchases
}

func New(dbx *sql.DB) *Service {
	return &Service{
		db:        dbx,
		accounts:  pgaccounts.New(dbx),
		purchases: pgpurchases.New(dbx),
	}
}

// EnsureAccount registers the caller with a zero balance if needed and
// returns the stored account. An existing account is never modified.
func (s *Service) EnsureAccount(ctx context.Context, acc accounts.Account) (accounts.Account, bool, error) {
	created, err := s.accounts.Create(ctx, acc)
	if err != nil {
		return accounts.Account{}, false, fmt.Errorf("create account: %w", err)
	}

	stored, err := s.accounts.Get(ctx, acc.ID)
	if err != nil {
		return accounts.Account{}, false, fmt.Errorf("get account: %w", err)
	}

	if created {
		slog.InfoContext(ctx, "account created", "account_id", acc.ID)
	}

	return stored, created, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (accounts.Account, error) {
	acc, err := s.accounts.Get(ctx, id)
	if err != nil {
		return accounts.Account{}, fmt.Errorf("get account: %w", err)
	}

	return acc, nil
}

// ApplyCredit runs the full flow in a single DB transaction:
//
// 1) Ensure account exists.
// 2) Lock account row (FOR UPDATE).
// 3) Increase the balance.
// 4) Insert the purchase (unique reference -> ErrDuplicatePurchase).
//
// It returns the balance after the credit.
func (s *Service) ApplyCredit(ctx context.Context, c Credit) (int64, error) {
	c.Reference = strings.TrimSpace(c.Reference)

	switch {
	case c.Coins <= 0:
		return 0, fmt.Errorf("%w: coins must be > 0", ErrInvalidCredit)
	case c.Reference == "":
		return 0, fmt.Errorf("%w: reference required", ErrInvalidCredit)
	case len(c.Reference) > maxReferenceLength:
		return 0, fmt.Errorf("%w: reference longer than %d", ErrInvalidCredit, maxReferenceLength)
	}

	var balance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.accounts.Exists(ctx, tx, c.AccountID)
		if err != nil {
			return fmt.Errorf("check account exists: %w", err)
		}

		_, err = s.accounts.LockAndGetBalance(ctx, tx, c.AccountID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		balance, err = s.accounts.IncreaseBalance(ctx, tx, c.AccountID, c.Coins)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.purchases.Insert(ctx, tx, purchases.Purchase{
			Reference: c.Reference,
			AccountID: c.AccountID,
			Coins:     c.Coins,
			Note:      c.Note,
		})
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("apply credit: %w", err)
	}

	slog.InfoContext(ctx, "credit applied",
		"account_id", c.AccountID, "coins", c.Coins, "reference", c.Reference, "balance", balance)

	return balance, nil
}

func (s *Service) ListPurchases(ctx context.Context, id uuid.UUID, limit, offset int) ([]purchases.Purchase, error) {
	out, err := s.purchases.ListByAccount(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	return out, nil
}

// Ping reports whether the database answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
