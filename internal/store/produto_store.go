package store

import (
	"context"

	"github.com/shopspring/decimal"

	"fiado/internal/models"
)

type ProdutoStore struct {
	db DB
}

func NewProdutoStore(db DB) *ProdutoStore {
	return &ProdutoStore{db: db}
}

type ProdutoInput struct {
	ID        string
	Nome      string
	Preco     decimal.Decimal
	Categoria *string
	Ativo     bool
	ValorTaxa decimal.Decimal
}

func (s *ProdutoStore) Create(ctx context.Context, input ProdutoInput) error {
	query := `
		INSERT INTO produtos (id, nome, preco, categoria, ativo, valor_taxa)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		input.ID, input.Nome, input.Preco, input.Categoria, input.Ativo, input.ValorTaxa,
	)
	return err
}

func (s *ProdutoStore) List(ctx context.Context) ([]models.Produto, error) {
	var rows []models.Produto
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, nome, preco, categoria, ativo, valor_taxa, created_at
		FROM produtos
		ORDER BY nome
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ProdutoStore) Update(ctx context.Context, produtoID string, input ProdutoInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE produtos
		SET nome = $2, preco = $3, categoria = $4, ativo = $5, valor_taxa = $6
		WHERE id = $1
	`, produtoID, input.Nome, input.Preco, input.Categoria, input.Ativo, input.ValorTaxa)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ProdutoStore) Delete(ctx context.Context, produtoID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM produtos WHERE id = $1`, produtoID)
	return err
}
