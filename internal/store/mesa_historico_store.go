package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/models"
)

type MesaHistoricoStore struct {
	db DB
}

func NewMesaHistoricoStore(db DB) *MesaHistoricoStore {
	return &MesaHistoricoStore{db: db}
}

type MesaHistoricoInput struct {
	ID             string
	NomeMesa       string
	DataAbertura   *time.Time
	DataFechamento time.Time
	Itens          types.JSONText
	Total          decimal.Decimal
	FormaPagamento string
	FoiFiado       bool
	ClienteNome    *string
	Logs           types.JSONText
}

func (s *MesaHistoricoStore) Insert(ctx context.Context, tx Execer, input MesaHistoricoInput) error {
	query := `
		INSERT INTO mesas_historico (id, nome_mesa, data_abertura, data_fechamento, itens, total, forma_pagamento, foi_fiado, cliente_nome, logs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.NomeMesa, input.DataAbertura, input.DataFechamento,
		orEmptyArray(input.Itens), input.Total, input.FormaPagamento, input.FoiFiado,
		input.ClienteNome, orEmptyArray(input.Logs),
	)
	return err
}

func (s *MesaHistoricoStore) List(ctx context.Context) ([]models.MesaHistorico, error) {
	var rows []models.MesaHistorico
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome_mesa, data_abertura, data_fechamento, itens, total, forma_pagamento, foi_fiado, cliente_nome, logs
		FROM mesas_historico
		ORDER BY data_fechamento DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PurgeOlderThan enforces the history retention window.
func (s *MesaHistoricoStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM mesas_historico WHERE data_fechamento < $1`, cutoff)
	return err
}
