package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fiado/internal/models"
	"fiado/internal/ratelimit"
	"fiado/internal/services"
	"fiado/internal/store"
)

type UserStore interface {
	GetActiveByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type ClienteStore interface {
	Create(ctx context.Context, input store.ClienteInput) error
	List(ctx context.Context) ([]models.Cliente, error)
	GetByID(ctx context.Context, clienteID string) (models.Cliente, error)
	Update(ctx context.Context, clienteID string, update store.ClienteUpdate) (int64, error)
	Delete(ctx context.Context, clienteID string) error
	Search(ctx context.Context, query string) ([]models.Cliente, error)
}

type TransacaoStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TransacaoInput) error
	ListByClient(ctx context.Context, clienteID string) ([]models.Transacao, error)
	ListByClientBetween(ctx context.Context, clienteID string, from, to time.Time) ([]models.Transacao, error)
}

type ProdutoStore interface {
	Create(ctx context.Context, input store.ProdutoInput) error
	List(ctx context.Context) ([]models.Produto, error)
	Update(ctx context.Context, produtoID string, input store.ProdutoInput) (int64, error)
	Delete(ctx context.Context, produtoID string) error
}

type MesaStore interface {
	Create(ctx context.Context, input store.MesaInput) error
	List(ctx context.Context) ([]models.Mesa, error)
	GetByID(ctx context.Context, mesaID string) (models.Mesa, error)
	Update(ctx context.Context, mesaID string, input store.MesaInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, mesaID string) error
}

type MesaHistoricoStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error
	List(ctx context.Context) ([]models.MesaHistorico, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) error
}

type CompraPixStore interface {
	Create(ctx context.Context, input store.CompraPixInput) error
	List(ctx context.Context) ([]models.CompraPix, error)
	GetByID(ctx context.Context, compraID string) (models.CompraPix, error)
	Update(ctx context.Context, compraID string, update store.CompraPixUpdate) (int64, error)
	Delete(ctx context.Context, compraID string) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceEngine interface {
	Balance(ctx context.Context, clienteID string) decimal.Decimal
}

type LoginLimiter interface {
	Check(identifier string) ratelimit.Result
	Reset(identifier string)
}

type MesaFinalizer interface {
	Finalize(ctx context.Context, req services.FinalizeRequest) (string, error)
}
