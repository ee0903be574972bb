package accounts

import (
	"errors"
	"testing"

	"github.com/fastprodman/smscoins/internal/infra/pgtestutil"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/google/uuid"
)

func TestAccounts_CreateAndGet(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := t.Context()

	acc := accounts.Account{ID: uuid.New(), Email: "ana@example.test", DisplayName: "Ana"}

	created, err := repo.Create(ctx, acc)
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}

	// A second registration must not reset an existing balance.
	_, err = db.ExecContext(ctx, `UPDATE accounts SET balance = 40 WHERE id = $1`, acc.ID)
	if err != nil {
		t.Fatalf("bump balance: %v", err)
	}

	created, err = repo.Create(ctx, accounts.Account{ID: acc.ID, Email: "other@example.test"})
	if err != nil || created {
		t.Fatalf("second create: created=%v err=%v", created, err)
	}

	got, err := repo.Get(ctx, acc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "ana@example.test" || got.DisplayName != "Ana" || got.Balance != 40 {
		t.Fatalf("unexpected account: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not populated")
	}
}

func TestAccounts_GetBalance_TableDriven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seed        bool
		balance     int64
		wantErr     error
		wantBalance int64
	}{
		{name: "ok_account_exists", seed: true, balance: 1000, wantBalance: 1000},
		{name: "error_account_not_found", wantErr: accounts.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			id := uuid.New()
			if tt.seed {
				pgtestutil.SeedAccount(t, db, id, tt.balance)
			}

			repo := New(db)

			got, err := repo.GetBalance(t.Context(), id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v (balance=%d)", tt.wantErr, err, got)
				}

				_, err = repo.Get(t.Context(), id)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Get: want %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}
