package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/models"
	"fiado/internal/store"
	"fiado/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubMesaStore struct {
	getByIDFn func(ctx context.Context, mesaID string) (models.Mesa, error)
	deleteFn  func(ctx context.Context, tx store.Execer, mesaID string) error
}

func (s stubMesaStore) GetByID(ctx context.Context, mesaID string) (models.Mesa, error) {
	if s.getByIDFn == nil {
		return models.Mesa{}, nil
	}
	return s.getByIDFn(ctx, mesaID)
}

func (s stubMesaStore) Delete(ctx context.Context, tx store.Execer, mesaID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, mesaID)
}

type stubHistoricoStore struct {
	insertFn func(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error
}

func (s stubHistoricoStore) Insert(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

type stubTransacaoStore struct {
	insertFn func(ctx context.Context, tx store.Execer, input store.TransacaoInput) error
}

func (s stubTransacaoStore) Insert(ctx context.Context, tx store.Execer, input store.TransacaoInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubEngine struct {
	balance decimal.Decimal
}

func (s stubEngine) Balance(ctx context.Context, clienteID string) decimal.Decimal {
	return s.balance
}

type recordingHub struct {
	updates []websocket.SaldoUpdate
}

func (h *recordingHub) BroadcastSaldo(update websocket.SaldoUpdate) {
	h.updates = append(h.updates, update)
}

func openMesa() models.Mesa {
	return models.Mesa{
		ID:        "m1",
		Nome:      "Mesa 3",
		Itens:     types.JSONText(`[{"nome":"cerveja","preco":8,"quantidade":3}]`),
		Logs:      types.JSONText(`[]`),
		CreatedAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestFinalizeFiadoRecordsCompraAndBroadcasts(t *testing.T) {
	clienteID := "c1"
	clienteNome := "João"
	var historicoInput store.MesaHistoricoInput
	var transacaoInput store.TransacaoInput
	deleted := false
	hub := &recordingHub{}

	service := NewMesaService(
		fakeTxRunner{},
		stubMesaStore{
			getByIDFn: func(_ context.Context, mesaID string) (models.Mesa, error) {
				if mesaID != "m1" {
					t.Fatalf("unexpected mesa id: %s", mesaID)
				}
				return openMesa(), nil
			},
			deleteFn: func(_ context.Context, _ store.Execer, mesaID string) error {
				deleted = true
				return nil
			},
		},
		stubHistoricoStore{
			insertFn: func(_ context.Context, _ store.Execer, input store.MesaHistoricoInput) error {
				historicoInput = input
				return nil
			},
		},
		stubTransacaoStore{
			insertFn: func(_ context.Context, _ store.Execer, input store.TransacaoInput) error {
				transacaoInput = input
				return nil
			},
		},
		stubAuditStore{},
		stubEngine{balance: decimal.NewFromInt(-24)},
		hub,
	)

	id, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID:         "m1",
		ActorID:        "user-1",
		FormaPagamento: "fiado",
		Total:          decimal.NewFromInt(24),
		FoiFiado:       true,
		ClienteID:      &clienteID,
		ClienteNome:    &clienteNome,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected historico id")
	}
	if !deleted {
		t.Fatalf("expected mesa to be deleted")
	}
	if historicoInput.NomeMesa != "Mesa 3" || !historicoInput.FoiFiado {
		t.Fatalf("unexpected historico input: %+v", historicoInput)
	}
	if transacaoInput.ClienteID != "c1" || transacaoInput.Tipo != "compra" {
		t.Fatalf("unexpected transacao input: %+v", transacaoInput)
	}
	if !transacaoInput.Valor.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("unexpected transacao valor: %s", transacaoInput.Valor)
	}
	if len(hub.updates) != 1 || hub.updates[0].ClienteID != "c1" || hub.updates[0].Saldo != "-24" {
		t.Fatalf("unexpected broadcasts: %+v", hub.updates)
	}
}

func TestFinalizeCashSkipsLedger(t *testing.T) {
	inserted := false
	hub := &recordingHub{}
	service := NewMesaService(
		fakeTxRunner{},
		stubMesaStore{
			getByIDFn: func(context.Context, string) (models.Mesa, error) { return openMesa(), nil },
		},
		stubHistoricoStore{},
		stubTransacaoStore{
			insertFn: func(context.Context, store.Execer, store.TransacaoInput) error {
				inserted = true
				return nil
			},
		},
		stubAuditStore{},
		stubEngine{},
		hub,
	)

	_, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID:         "m1",
		ActorID:        "user-1",
		FormaPagamento: "pix",
		Total:          decimal.NewFromInt(24),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatalf("cash close must not touch the ledger")
	}
	if len(hub.updates) != 0 {
		t.Fatalf("cash close must not broadcast balances")
	}
}

func TestFinalizeValidation(t *testing.T) {
	service := NewMesaService(fakeTxRunner{}, stubMesaStore{}, stubHistoricoStore{}, stubTransacaoStore{}, stubAuditStore{}, stubEngine{}, &recordingHub{})

	if _, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID: "m1", FormaPagamento: "pix", Total: decimal.Zero,
	}); err != ErrInvalidTotal {
		t.Fatalf("expected ErrInvalidTotal, got %v", err)
	}

	if _, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID: "m1", FormaPagamento: "cheque", Total: decimal.NewFromInt(10),
	}); err != ErrInvalidPagamento {
		t.Fatalf("expected ErrInvalidPagamento, got %v", err)
	}

	if _, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID: "m1", FormaPagamento: "fiado", Total: decimal.NewFromInt(10), FoiFiado: true,
	}); err != ErrClienteRequired {
		t.Fatalf("expected ErrClienteRequired, got %v", err)
	}
}

func TestFinalizeMesaNotFound(t *testing.T) {
	service := NewMesaService(
		fakeTxRunner{},
		stubMesaStore{
			getByIDFn: func(context.Context, string) (models.Mesa, error) {
				return models.Mesa{}, sql.ErrNoRows
			},
		},
		stubHistoricoStore{}, stubTransacaoStore{}, stubAuditStore{}, stubEngine{}, &recordingHub{},
	)
	if _, err := service.Finalize(context.Background(), FinalizeRequest{
		MesaID: "missing", FormaPagamento: "pix", Total: decimal.NewFromInt(10),
	}); err != ErrMesaNotFound {
		t.Fatalf("expected ErrMesaNotFound, got %v", err)
	}
}
