package store

import (
	"context"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/models"
)

type CompraPixStore struct {
	db DB
}

func NewCompraPixStore(db DB) *CompraPixStore {
	return &CompraPixStore{db: db}
}

type CompraPixInput struct {
	ID          string
	NomeCliente string
	Itens       types.JSONText
	Total       decimal.Decimal
}

// CompraPixUpdate flips payment/forwarding flags; nil fields keep the stored
// value. Setting ClienteID also marks the sale as forwarded to that client.
type CompraPixUpdate struct {
	Pago      *bool
	ClienteID *string
}

func (s *CompraPixStore) Create(ctx context.Context, input CompraPixInput) error {
	query := `
		INSERT INTO compras_pix (id, nome_cliente, itens, total)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, input.ID, input.NomeCliente, orEmptyArray(input.Itens), input.Total)
	return err
}

func (s *CompraPixStore) List(ctx context.Context) ([]models.CompraPix, error) {
	var rows []models.CompraPix
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome_cliente, itens, total, pago, cliente_id, enviado_para_cliente, created_at
		FROM compras_pix
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CompraPixStore) GetByID(ctx context.Context, compraID string) (models.CompraPix, error) {
	var row models.CompraPix
	err := s.db.GetContext(ctx, &row, `
		SELECT id, nome_cliente, itens, total, pago, cliente_id, enviado_para_cliente, created_at
		FROM compras_pix
		WHERE id = $1
	`, compraID)
	if err != nil {
		return models.CompraPix{}, err
	}
	return row, nil
}

func (s *CompraPixStore) Update(ctx context.Context, compraID string, update CompraPixUpdate) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE compras_pix
		SET pago = COALESCE($2, pago),
		    cliente_id = COALESCE($3, cliente_id),
		    enviado_para_cliente = CASE WHEN $3 IS NOT NULL THEN TRUE ELSE enviado_para_cliente END
		WHERE id = $1
	`, compraID, update.Pago, update.ClienteID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CompraPixStore) Delete(ctx context.Context, compraID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM compras_pix WHERE id = $1`, compraID)
	return err
}
