package pgutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantUnique bool
		wantFK     bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, wantUnique: true},
		{name: "wrapped_unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), wantUnique: true},
		{name: "fk", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), wantFK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsUniqueViolation(tt.err); got != tt.wantUnique {
				t.Fatalf("IsUniqueViolation: want %v, got %v", tt.wantUnique, got)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.wantFK {
				t.Fatalf("IsForeignKeyViolation: want %v, got %v", tt.wantFK, got)
			}
		})
	}
}
