package store

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fiado/internal/models"
)

type ClienteStore struct {
	db DB
}

func NewClienteStore(db DB) *ClienteStore {
	return &ClienteStore{db: db}
}

type ClienteInput struct {
	ID            string
	Nome          string
	Apelidos      []string
	Telefone      *string
	Email         *string
	FotoPath      *string
	DiaPagamento  *int
	LimiteCredito decimal.Decimal
	Tags          []string
}

// ClienteUpdate carries a partial update; nil fields keep the stored value.
type ClienteUpdate struct {
	Nome          *string
	Apelidos      []string
	Telefone      *string
	Email         *string
	FotoPath      *string
	DiaPagamento  *int
	LimiteCredito *decimal.Decimal
	Tags          []string
	Status        *string
}

func (s *ClienteStore) Create(ctx context.Context, input ClienteInput) error {
	query := `
		INSERT INTO clientes (id, nome, apelidos, telefone, email, foto_path, dia_pagamento, limite_credito, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'ativo')
	`
	_, err := s.db.ExecContext(ctx, query,
		input.ID, input.Nome, pq.Array(input.Apelidos), input.Telefone, input.Email,
		input.FotoPath, input.DiaPagamento, input.LimiteCredito, pq.Array(input.Tags),
	)
	return err
}

func (s *ClienteStore) List(ctx context.Context) ([]models.Cliente, error) {
	var rows []models.Cliente
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome, apelidos, telefone, email, foto_path, dia_pagamento, limite_credito, tags, status, created_at
		FROM clientes
		ORDER BY nome
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ClienteStore) GetByID(ctx context.Context, clienteID string) (models.Cliente, error) {
	var row models.Cliente
	err := s.db.GetContext(ctx, &row, `
		SELECT id, nome, apelidos, telefone, email, foto_path, dia_pagamento, limite_credito, tags, status, created_at
		FROM clientes
		WHERE id = $1
	`, clienteID)
	if err != nil {
		return models.Cliente{}, err
	}
	return row, nil
}

func (s *ClienteStore) Update(ctx context.Context, clienteID string, update ClienteUpdate) (int64, error) {
	query := `
		UPDATE clientes
		SET nome = COALESCE($2, nome),
		    apelidos = COALESCE($3, apelidos),
		    telefone = COALESCE($4, telefone),
		    email = COALESCE($5, email),
		    foto_path = COALESCE($6, foto_path),
		    dia_pagamento = COALESCE($7, dia_pagamento),
		    limite_credito = COALESCE($8, limite_credito),
		    tags = COALESCE($9, tags),
		    status = COALESCE($10, status)
		WHERE id = $1
	`
	var apelidos, tags any
	if update.Apelidos != nil {
		apelidos = pq.Array(update.Apelidos)
	}
	if update.Tags != nil {
		tags = pq.Array(update.Tags)
	}
	res, err := s.db.ExecContext(ctx, query,
		clienteID, update.Nome, apelidos, update.Telefone, update.Email,
		update.FotoPath, update.DiaPagamento, update.LimiteCredito, tags, update.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ClienteStore) Delete(ctx context.Context, clienteID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, clienteID)
	return err
}

// Search matches nome or telefone, case-insensitive, capped at 10 rows.
func (s *ClienteStore) Search(ctx context.Context, query string) ([]models.Cliente, error) {
	pattern := "%" + escapeLike(query) + "%"
	var rows []models.Cliente
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome, apelidos, telefone, email, foto_path, dia_pagamento, limite_credito, tags, status, created_at
		FROM clientes
		WHERE nome ILIKE $1 OR telefone ILIKE $1
		ORDER BY nome
		LIMIT 10
	`, pattern)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
