package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Nome         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Ativo        bool      `db:"ativo" json:"ativo"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Cliente struct {
	ID            string          `db:"id" json:"id"`
	Nome          string          `db:"nome" json:"nome"`
	Apelidos      pq.StringArray  `db:"apelidos" json:"apelidos"`
	Telefone      *string         `db:"telefone" json:"telefone"`
	Email         *string         `db:"email" json:"email"`
	FotoPath      *string         `db:"foto_path" json:"foto_path"`
	DiaPagamento  *int            `db:"dia_pagamento" json:"dia_pagamento"`
	LimiteCredito decimal.Decimal `db:"limite_credito" json:"limite_credito"`
	Tags          pq.StringArray  `db:"tags" json:"tags"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Transacao is one ledger entry: a purchase on credit or a payment against it.
// Rows are insert-only.
type Transacao struct {
	ID          string          `db:"id" json:"id"`
	ClienteID   string          `db:"cliente_id" json:"cliente_id"`
	Tipo        string          `db:"tipo" json:"tipo"`
	Valor       decimal.Decimal `db:"valor" json:"valor"`
	Dados       types.JSONText  `db:"dados" json:"dados"`
	Observacoes *string         `db:"observacoes" json:"observacoes"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type Produto struct {
	ID        string          `db:"id" json:"id"`
	Nome      string          `db:"nome" json:"nome"`
	Preco     decimal.Decimal `db:"preco" json:"preco"`
	Categoria *string         `db:"categoria" json:"categoria"`
	Ativo     bool            `db:"ativo" json:"ativo"`
	ValorTaxa decimal.Decimal `db:"valor_taxa" json:"valor_taxa"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type Mesa struct {
	ID          string         `db:"id" json:"id"`
	Nome        string         `db:"nome" json:"nome"`
	Itens       types.JSONText `db:"itens" json:"itens"`
	Observacoes *string        `db:"observacoes" json:"observacoes"`
	Logs        types.JSONText `db:"logs" json:"logs"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

type MesaHistorico struct {
	ID             string          `db:"id" json:"id"`
	NomeMesa       string          `db:"nome_mesa" json:"nome_mesa"`
	DataAbertura   *time.Time      `db:"data_abertura" json:"data_abertura"`
	DataFechamento time.Time       `db:"data_fechamento" json:"data_fechamento"`
	Itens          types.JSONText  `db:"itens" json:"itens"`
	Total          decimal.Decimal `db:"total" json:"total"`
	FormaPagamento string          `db:"forma_pagamento" json:"forma_pagamento"`
	FoiFiado       bool            `db:"foi_fiado" json:"foi_fiado"`
	ClienteNome    *string         `db:"cliente_nome" json:"cliente_nome"`
	Logs           types.JSONText  `db:"logs" json:"logs"`
}

type CompraPix struct {
	ID                 string          `db:"id" json:"id"`
	NomeCliente        string          `db:"nome_cliente" json:"nome_cliente"`
	Itens              types.JSONText  `db:"itens" json:"itens"`
	Total              decimal.Decimal `db:"total" json:"total"`
	Pago               bool            `db:"pago" json:"pago"`
	ClienteID          *string         `db:"cliente_id" json:"cliente_id"`
	EnviadoParaCliente bool            `db:"enviado_para_cliente" json:"enviado_para_cliente"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}
