package handlers

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fiado/internal/config"
	"fiado/internal/models"
	"fiado/internal/ratelimit"
	"fiado/internal/services"
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

type stubUserStore struct {
	getActiveByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn          func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) GetActiveByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getActiveByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getActiveByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubClienteStore struct {
	createFn  func(ctx context.Context, input store.ClienteInput) error
	listFn    func(ctx context.Context) ([]models.Cliente, error)
	getByIDFn func(ctx context.Context, clienteID string) (models.Cliente, error)
	updateFn  func(ctx context.Context, clienteID string, update store.ClienteUpdate) (int64, error)
	deleteFn  func(ctx context.Context, clienteID string) error
	searchFn  func(ctx context.Context, query string) ([]models.Cliente, error)
}

func (s stubClienteStore) Create(ctx context.Context, input store.ClienteInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubClienteStore) List(ctx context.Context) ([]models.Cliente, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubClienteStore) GetByID(ctx context.Context, clienteID string) (models.Cliente, error) {
	if s.getByIDFn == nil {
		return models.Cliente{}, nil
	}
	return s.getByIDFn(ctx, clienteID)
}

func (s stubClienteStore) Update(ctx context.Context, clienteID string, update store.ClienteUpdate) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, clienteID, update)
}

func (s stubClienteStore) Delete(ctx context.Context, clienteID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, clienteID)
}

func (s stubClienteStore) Search(ctx context.Context, query string) ([]models.Cliente, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, query)
}

type stubTransacaoStore struct {
	insertFn              func(ctx context.Context, tx store.Execer, input store.TransacaoInput) error
	listByClientFn        func(ctx context.Context, clienteID string) ([]models.Transacao, error)
	listByClientBetweenFn func(ctx context.Context, clienteID string, from, to time.Time) ([]models.Transacao, error)
}

func (s stubTransacaoStore) Insert(ctx context.Context, tx store.Execer, input store.TransacaoInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubTransacaoStore) ListByClient(ctx context.Context, clienteID string) ([]models.Transacao, error) {
	if s.listByClientFn == nil {
		return nil, nil
	}
	return s.listByClientFn(ctx, clienteID)
}

func (s stubTransacaoStore) ListByClientBetween(ctx context.Context, clienteID string, from, to time.Time) ([]models.Transacao, error) {
	if s.listByClientBetweenFn == nil {
		return nil, nil
	}
	return s.listByClientBetweenFn(ctx, clienteID, from, to)
}

type stubProdutoStore struct {
	createFn func(ctx context.Context, input store.ProdutoInput) error
	listFn   func(ctx context.Context) ([]models.Produto, error)
	updateFn func(ctx context.Context, produtoID string, input store.ProdutoInput) (int64, error)
	deleteFn func(ctx context.Context, produtoID string) error
}

func (s stubProdutoStore) Create(ctx context.Context, input store.ProdutoInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubProdutoStore) List(ctx context.Context) ([]models.Produto, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubProdutoStore) Update(ctx context.Context, produtoID string, input store.ProdutoInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, produtoID, input)
}

func (s stubProdutoStore) Delete(ctx context.Context, produtoID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, produtoID)
}

type stubMesaStore struct {
	createFn  func(ctx context.Context, input store.MesaInput) error
	listFn    func(ctx context.Context) ([]models.Mesa, error)
	getByIDFn func(ctx context.Context, mesaID string) (models.Mesa, error)
	updateFn  func(ctx context.Context, mesaID string, input store.MesaInput) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, mesaID string) error
}

func (s stubMesaStore) Create(ctx context.Context, input store.MesaInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubMesaStore) List(ctx context.Context) ([]models.Mesa, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMesaStore) GetByID(ctx context.Context, mesaID string) (models.Mesa, error) {
	if s.getByIDFn == nil {
		return models.Mesa{}, nil
	}
	return s.getByIDFn(ctx, mesaID)
}

func (s stubMesaStore) Update(ctx context.Context, mesaID string, input store.MesaInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, mesaID, input)
}

func (s stubMesaStore) Delete(ctx context.Context, tx store.Execer, mesaID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, mesaID)
}

type stubHistoricoStore struct {
	insertFn func(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error
	listFn   func(ctx context.Context) ([]models.MesaHistorico, error)
	purgeFn  func(ctx context.Context, cutoff time.Time) error
}

func (s stubHistoricoStore) Insert(ctx context.Context, tx store.Execer, input store.MesaHistoricoInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubHistoricoStore) List(ctx context.Context) ([]models.MesaHistorico, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubHistoricoStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) error {
	if s.purgeFn == nil {
		return nil
	}
	return s.purgeFn(ctx, cutoff)
}

type stubCompraPixStore struct {
	createFn  func(ctx context.Context, input store.CompraPixInput) error
	listFn    func(ctx context.Context) ([]models.CompraPix, error)
	getByIDFn func(ctx context.Context, compraID string) (models.CompraPix, error)
	updateFn  func(ctx context.Context, compraID string, update store.CompraPixUpdate) (int64, error)
	deleteFn  func(ctx context.Context, compraID string) error
}

func (s stubCompraPixStore) Create(ctx context.Context, input store.CompraPixInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubCompraPixStore) List(ctx context.Context) ([]models.CompraPix, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubCompraPixStore) GetByID(ctx context.Context, compraID string) (models.CompraPix, error) {
	if s.getByIDFn == nil {
		return models.CompraPix{}, nil
	}
	return s.getByIDFn(ctx, compraID)
}

func (s stubCompraPixStore) Update(ctx context.Context, compraID string, update store.CompraPixUpdate) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, compraID, update)
}

func (s stubCompraPixStore) Delete(ctx context.Context, compraID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, compraID)
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

type stubFinalizer struct {
	finalizeFn func(ctx context.Context, req services.FinalizeRequest) (string, error)
}

func (s stubFinalizer) Finalize(ctx context.Context, req services.FinalizeRequest) (string, error) {
	if s.finalizeFn == nil {
		return "h1", nil
	}
	return s.finalizeFn(ctx, req)
}

// testDeps lets each test swap only the collaborators it cares about.
type testDeps struct {
	txRunner   fakeTxRunner
	users      UserStore
	clientes   ClienteStore
	transacoes TransacaoStore
	produtos   ProdutoStore
	mesas      MesaStore
	historico  MesaHistoricoStore
	pix        CompraPixStore
	audit      AuditStore
	engine     BalanceEngine
	limiter    LoginLimiter
	finalizer  MesaFinalizer
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		JWTSecret:      "secret",
		SessionTTL:     time.Hour,
		AllowedOrigins: "*",
	}
	if deps.users == nil {
		deps.users = stubUserStore{}
	}
	if deps.clientes == nil {
		deps.clientes = stubClienteStore{}
	}
	if deps.transacoes == nil {
		deps.transacoes = stubTransacaoStore{}
	}
	if deps.produtos == nil {
		deps.produtos = stubProdutoStore{}
	}
	if deps.mesas == nil {
		deps.mesas = stubMesaStore{}
	}
	if deps.historico == nil {
		deps.historico = stubHistoricoStore{}
	}
	if deps.pix == nil {
		deps.pix = stubCompraPixStore{}
	}
	if deps.audit == nil {
		deps.audit = stubAuditStore{}
	}
	if deps.engine == nil {
		deps.engine = stubEngine{}
	}
	if deps.limiter == nil {
		deps.limiter = ratelimit.New()
	}
	if deps.finalizer == nil {
		deps.finalizer = stubFinalizer{}
	}
	return New(cfg, deps.txRunner, deps.users, deps.clientes, deps.transacoes, deps.produtos, deps.mesas, deps.historico, deps.pix, deps.audit, deps.engine, deps.limiter, deps.finalizer, websocket.NewHub())
}
