package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"fiado/internal/models"
)

func TestClienteStoreSearchEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	store := NewClienteStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ILIKE $1") || !strings.Contains(query, "LIMIT 10") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != `%jo\%\_ao%` {
				t.Fatalf("unexpected pattern: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.Search(ctx, "jo%_ao"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClienteStoreUpdatePartial(t *testing.T) {
	ctx := context.Background()
	nome := "Maria"
	store := NewClienteStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "COALESCE($2, nome)") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "c1" {
				t.Fatalf("unexpected id arg: %v", args[0])
			}
			if got := args[1].(*string); got == nil || *got != "Maria" {
				t.Fatalf("unexpected nome arg: %v", args[1])
			}
			// Untouched fields stay nil so COALESCE keeps the stored value.
			if args[3] != (*string)(nil) {
				t.Fatalf("expected nil telefone, got %v", args[3])
			}
			return stubResult{rows: 1}, nil
		},
	})
	rows, err := store.Update(ctx, "c1", ClienteUpdate{Nome: &nome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}
}

func TestClienteStoreListOrdersByName(t *testing.T) {
	ctx := context.Background()
	store := NewClienteStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY nome") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]models.Cliente) = []models.Cliente{
				{ID: "c1", Nome: "Ana", CreatedAt: time.Now()},
			}
			return nil
		},
	})
	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Nome != "Ana" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
