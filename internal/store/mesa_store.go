package store

import (
	"context"

	"github.com/jmoiron/sqlx/types"

	"fiado/internal/models"
)

type MesaStore struct {
	db DB
}

func NewMesaStore(db DB) *MesaStore {
	return &MesaStore{db: db}
}

type MesaInput struct {
	ID          string
	Nome        string
	Itens       types.JSONText
	Observacoes *string
	Logs        types.JSONText
}

func (s *MesaStore) Create(ctx context.Context, input MesaInput) error {
	query := `
		INSERT INTO mesas (id, nome, itens, observacoes, logs)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		input.ID, input.Nome, orEmptyArray(input.Itens), input.Observacoes, orEmptyArray(input.Logs),
	)
	return err
}

func (s *MesaStore) List(ctx context.Context) ([]models.Mesa, error) {
	var rows []models.Mesa
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome, itens, observacoes, logs, created_at
		FROM mesas
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MesaStore) GetByID(ctx context.Context, mesaID string) (models.Mesa, error) {
	var row models.Mesa
	err := s.db.GetContext(ctx, &row, `
		SELECT id, nome, itens, observacoes, logs, created_at
		FROM mesas
		WHERE id = $1
	`, mesaID)
	if err != nil {
		return models.Mesa{}, err
	}
	return row, nil
}

func (s *MesaStore) Update(ctx context.Context, mesaID string, input MesaInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE mesas
		SET nome = $2, itens = $3, observacoes = $4, logs = $5
		WHERE id = $1
	`, mesaID, input.Nome, orEmptyArray(input.Itens), input.Observacoes, orEmptyArray(input.Logs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *MesaStore) Delete(ctx context.Context, tx Execer, mesaID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM mesas WHERE id = $1`, mesaID)
	return err
}

func orEmptyArray(value types.JSONText) types.JSONText {
	if value == nil {
		return types.JSONText(`[]`)
	}
	return value
}
