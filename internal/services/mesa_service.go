package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/db"
	"fiado/internal/models"
	"fiado/internal/store"
	"fiado/internal/websocket"
)

var (
	ErrMesaNotFound     = errors.New("mesa not found")
	ErrInvalidTotal     = errors.New("invalid total")
	ErrClienteRequired  = errors.New("cliente required for fiado")
	ErrInvalidPagamento = errors.New("invalid payment method")
)

var formasPagamento = map[string]bool{
	"dinheiro": true,
	"pix":      true,
	"cartao":   true,
	"fiado":    true,
}

type MesaStore interface {
	GetByID(ctx context.Context, mesaID string) (models.Mesa, error)
	Delete(ctx context.Context, tx store.Execer, mesaID string) error
}

type MesaHistoricoStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error
}

type TransacaoStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TransacaoInput) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceEngine interface {
	Balance(ctx context.Context, clienteID string) decimal.Decimal
}

type SaldoHub interface {
	BroadcastSaldo(update websocket.SaldoUpdate)
}

// MesaService closes open tables: the history row, the optional fiado ledger
// entry and the mesa delete land in one serializable transaction.
type MesaService struct {
	txRunner   db.TxRunner
	mesas      MesaStore
	historico  MesaHistoricoStore
	transacoes TransacaoStore
	audit      AuditStore
	engine     BalanceEngine
	hub        SaldoHub
}

func NewMesaService(txRunner db.TxRunner, mesas MesaStore, historico MesaHistoricoStore, transacoes TransacaoStore, audit AuditStore, engine BalanceEngine, hub SaldoHub) *MesaService {
	return &MesaService{
		txRunner:   txRunner,
		mesas:      mesas,
		historico:  historico,
		transacoes: transacoes,
		audit:      audit,
		engine:     engine,
		hub:        hub,
	}
}

type FinalizeRequest struct {
	MesaID         string
	ActorID        string
	FormaPagamento string
	Total          decimal.Decimal
	FoiFiado       bool
	ClienteID      *string
	ClienteNome    *string
}

// Finalize archives the mesa and, when it closes as fiado, records the whole
// table as a single compra on the client's ledger.
func (s *MesaService) Finalize(ctx context.Context, req FinalizeRequest) (string, error) {
	if !req.Total.IsPositive() {
		return "", ErrInvalidTotal
	}
	if !formasPagamento[req.FormaPagamento] {
		return "", ErrInvalidPagamento
	}
	if req.FoiFiado && (req.ClienteID == nil || *req.ClienteID == "") {
		return "", ErrClienteRequired
	}

	mesa, err := s.mesas.GetByID(ctx, req.MesaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMesaNotFound
		}
		return "", err
	}

	historicoID := uuid.NewString()
	now := time.Now()
	abertura := mesa.CreatedAt
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.historico.Insert(ctx, tx, store.MesaHistoricoInput{
			ID:             historicoID,
			NomeMesa:       mesa.Nome,
			DataAbertura:   &abertura,
			DataFechamento: now,
			Itens:          mesa.Itens,
			Total:          req.Total,
			FormaPagamento: req.FormaPagamento,
			FoiFiado:       req.FoiFiado,
			ClienteNome:    req.ClienteNome,
			Logs:           mesa.Logs,
		}); err != nil {
			return err
		}
		if req.FoiFiado {
			dados, _ := json.Marshal(map[string]any{
				"origem": "mesa",
				"mesa":   mesa.Nome,
				"itens":  json.RawMessage(orEmptyArray(mesa.Itens)),
			})
			if err := s.transacoes.Insert(ctx, tx, store.TransacaoInput{
				ID:        uuid.NewString(),
				ClienteID: *req.ClienteID,
				Tipo:      "compra",
				Valor:     req.Total,
				Dados:     types.JSONText(dados),
			}); err != nil {
				return err
			}
		}
		if err := s.mesas.Delete(ctx, tx, req.MesaID); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"mesa":            mesa.Nome,
			"total":           req.Total,
			"forma_pagamento": req.FormaPagamento,
			"foi_fiado":       req.FoiFiado,
		})
		return s.audit.Log(ctx, tx, req.ActorID, "finalizar_mesa", "mesa", req.MesaID, string(data))
	})
	if err != nil {
		return "", err
	}

	if req.FoiFiado {
		saldo := s.engine.Balance(ctx, *req.ClienteID)
		s.hub.BroadcastSaldo(websocket.SaldoUpdate{ClienteID: *req.ClienteID, Saldo: saldo.String()})
	}
	return historicoID, nil
}

func orEmptyArray(value types.JSONText) types.JSONText {
	if value == nil {
		return types.JSONText(`[]`)
	}
	return value
}
