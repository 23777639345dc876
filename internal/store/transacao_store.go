package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/ledger"
	"fiado/internal/models"
)

type TransacaoStore struct {
	db DB
}

func NewTransacaoStore(db DB) *TransacaoStore {
	return &TransacaoStore{db: db}
}

type TransacaoInput struct {
	ID          string
	ClienteID   string
	Tipo        string
	Valor       decimal.Decimal
	Dados       types.JSONText
	Observacoes *string
}

func (s *TransacaoStore) Insert(ctx context.Context, tx Execer, input TransacaoInput) error {
	query := `
		INSERT INTO transacoes (id, cliente_id, tipo, valor, dados, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	dados := input.Dados
	if dados == nil {
		dados = types.JSONText(`{}`)
	}
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.ClienteID, input.Tipo, input.Valor, dados, input.Observacoes,
	)
	return err
}

func (s *TransacaoStore) ListByClient(ctx context.Context, clienteID string) ([]models.Transacao, error) {
	var rows []models.Transacao
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, cliente_id, tipo, valor, dados, observacoes, created_at
		FROM transacoes
		WHERE cliente_id = $1
		ORDER BY created_at DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByClientBetween returns the entries inside [from, to], newest first.
// Feeds the receipt export screen.
func (s *TransacaoStore) ListByClientBetween(ctx context.Context, clienteID string, from, to time.Time) ([]models.Transacao, error) {
	var rows []models.Transacao
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, cliente_id, tipo, valor, dados, observacoes, created_at
		FROM transacoes
		WHERE cliente_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
	`, clienteID, from, to)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LedgerSource adapts the transacoes table to the balance engine's contract.
type LedgerSource struct {
	transacoes *TransacaoStore
}

func NewLedgerSource(transacoes *TransacaoStore) LedgerSource {
	return LedgerSource{transacoes: transacoes}
}

func (s LedgerSource) ListByClient(ctx context.Context, clienteID string) ([]ledger.Entry, error) {
	rows, err := s.transacoes.ListByClient(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		note := ""
		if row.Observacoes != nil {
			note = *row.Observacoes
		}
		entries = append(entries, ledger.Entry{
			ID:          row.ID,
			ClienteID:   row.ClienteID,
			Kind:        ledger.Kind(row.Tipo),
			Amount:      row.Valor,
			Dados:       json.RawMessage(row.Dados),
			Observacoes: note,
			CreatedAt:   row.CreatedAt,
		})
	}
	return entries, nil
}
