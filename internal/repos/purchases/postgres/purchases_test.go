package purchases

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/smscoins/internal/infra/pgtestutil"
	"github.com/fastprodman/smscoins/internal/infra/pgutils"
	"github.com/fastprodman/smscoins/internal/repos/purchases"
	"github.com/google/uuid"
)

func TestPurchases_Insert(t *testing.T) {
	t.Parallel()

	knownID := uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")

	tests := []struct {
		name      string
		seed      func(t *testing.T, db *sql.DB)
		purchase  purchases.Purchase
		wantErr   error
		wantFKErr bool
	}{
		{
			name: "ok_insert",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedAccount(t, db, knownID, 0)
			},
			purchase: purchases.Purchase{Reference: "ref_123", AccountID: knownID, Coins: 50, Note: "promo"},
		},
		{
			name: "duplicate_reference",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedAccount(t, db, knownID, 0)

				_, err := db.Exec(`INSERT INTO credit_purchases (reference, account_id, coins) VALUES ($1, $2, $3)`,
					"ref_dup", knownID, 10)
				if err != nil {
					t.Fatalf("seed purchase: %v", err)
				}
			},
			purchase: purchases.Purchase{Reference: "ref_dup", AccountID: knownID, Coins: 10},
			wantErr:  purchases.ErrDuplicatePurchase,
		},
		{
			name:      "account_not_exist_fk_violation",
			purchase:  purchases.Purchase{Reference: "ref_fk", AccountID: uuid.New(), Coins: 10},
			wantFKErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(t, db)
			}

			repo := New(db)
			ctx := context.Background()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer tx.Rollback()

			err = repo.Insert(ctx, tx, tt.purchase)

			switch {
			case tt.wantFKErr:
				if !pgutils.IsForeignKeyViolation(err) {
					t.Fatalf("expected foreign key violation, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestPurchases_ListByAccount(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	id := uuid.New()
	pgtestutil.SeedAccount(t, db, id, 0)

	repo := New(db)
	ctx := t.Context()

	err := pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, ref := range []string{"first", "second", "third"} {
			ierr := repo.Insert(ctx, tx, purchases.Purchase{Reference: ref, AccountID: id, Coins: 5})
			if ierr != nil {
				return ierr
			}
		}

		return nil
	})
	if err != nil {
		t.Fatalf("seed purchases: %v", err)
	}

	got, err := repo.ListByAccount(ctx, id, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 purchases, got %d", len(got))
	}
	// same created_at inside one tx, so id DESC decides
	if got[0].Reference != "third" || got[1].Reference != "second" {
		t.Fatalf("unexpected order: %q, %q", got[0].Reference, got[1].Reference)
	}
	if got[0].Coins != 5 || got[0].AccountID != id || got[0].ID == 0 {
		t.Fatalf("unexpected purchase: %+v", got[0])
	}

	got, err = repo.ListByAccount(ctx, id, 2, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(got) != 1 || got[0].Reference != "first" {
		t.Fatalf("page 2: unexpected result %+v", got)
	}
}
