// Package ledger computes client balances from their transaction history.
//
// A client's balance is never stored: it is recomputed from the full entry
// history on every read. Purchases ("compra") push the balance down, payments
// ("abate") push it back up, so a client who owes money has a negative balance.
package ledger

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindCompra Kind = "compra"
	KindAbate  Kind = "abate"
)

// Entry is one immutable ledger event for a client. Amount is always positive;
// Kind alone decides the direction of its effect on the balance.
type Entry struct {
	ID          string
	ClienteID   string
	Kind        Kind
	Amount      decimal.Decimal
	Dados       json.RawMessage
	Observacoes string
	CreatedAt   time.Time
}

// EntrySource returns every entry belonging to a client, in any order.
type EntrySource interface {
	ListByClient(ctx context.Context, clienteID string) ([]Entry, error)
}

type Engine struct {
	source EntrySource
}

func NewEngine(source EntrySource) *Engine {
	return &Engine{source: source}
}

// Balance returns sum(abates) - sum(compras) over the client's full history.
// Entries with an unrecognized kind contribute zero. When the source fails the
// engine logs the failure and returns zero instead of surfacing the error.
func (e *Engine) Balance(ctx context.Context, clienteID string) decimal.Decimal {
	entries, err := e.source.ListByClient(ctx, clienteID)
	if err != nil {
		log.Printf("ledger: failed to load entries for client %s: %v", clienteID, err)
		return decimal.Zero
	}
	totalAbates := decimal.Zero
	totalCompras := decimal.Zero
	for _, entry := range entries {
		switch entry.Kind {
		case KindAbate:
			totalAbates = totalAbates.Add(entry.Amount)
		case KindCompra:
			totalCompras = totalCompras.Add(entry.Amount)
		}
	}
	return totalAbates.Sub(totalCompras)
}

// IsOverLimit reports whether a balance exceeds the client's credit limit.
// A limit of zero disables the check entirely.
func IsOverLimit(balance, limiteCredito decimal.Decimal) bool {
	return limiteCredito.IsPositive() && balance.LessThan(limiteCredito.Neg())
}

// AmountToZeroOut returns the payment amount that brings a negative balance
// back to zero. Callers must check the sign first; for non-negative balances
// the result is not meaningful.
func AmountToZeroOut(balance decimal.Decimal) decimal.Decimal {
	return balance.Abs()
}
