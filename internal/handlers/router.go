package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fiado/internal/config"
	"fiado/internal/db"
	"fiado/internal/middleware"
	"fiado/internal/websocket"
)

type Handler struct {
	cfg        config.Config
	txRunner   db.TxRunner
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
	hub        *websocket.Hub
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, clientes ClienteStore, transacoes TransacaoStore, produtos ProdutoStore, mesas MesaStore, historico MesaHistoricoStore, pix CompraPixStore, audit AuditStore, engine BalanceEngine, limiter LoginLimiter, finalizer MesaFinalizer, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:        cfg,
		txRunner:   txRunner,
		users:      users,
		clientes:   clientes,
		transacoes: transacoes,
		produtos:   produtos,
		mesas:      mesas,
		historico:  historico,
		pix:        pix,
		audit:      audit,
		engine:     engine,
		limiter:    limiter,
		finalizer:  finalizer,
		hub:        hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/login", h.Login)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)

		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", h.ListClientes)
			r.Post("/", h.CreateCliente)
			r.Get("/{id}", h.GetCliente)
			r.Put("/{id}", h.UpdateCliente)
			r.Delete("/{id}", h.DeleteCliente)
			r.Get("/{id}/transacoes", h.ListTransacoesCliente)
		})

		r.Post("/transacoes", h.CreateTransacao)

		r.Route("/produtos", func(r chi.Router) {
			r.Get("/", h.ListProdutos)
			r.Post("/", h.CreateProduto)
			r.Put("/{id}", h.UpdateProduto)
			r.Delete("/{id}", h.DeleteProduto)
		})

		r.Route("/mesas", func(r chi.Router) {
			r.Get("/", h.ListMesas)
			r.Post("/", h.CreateMesa)
			r.Put("/{id}", h.UpdateMesa)
			r.Delete("/{id}", h.DeleteMesa)
			r.Post("/{id}/finalizar", h.FinalizarMesa)
		})

		r.Get("/mesas-anteriores", h.ListMesasAnteriores)
		r.Post("/mesas-anteriores", h.CreateMesaHistorico)

		r.Route("/compras-pix", func(r chi.Router) {
			r.Get("/", h.ListComprasPix)
			r.Post("/", h.CreateCompraPix)
			r.Put("/{id}", h.UpdateCompraPix)
			r.Delete("/{id}", h.DeleteCompraPix)
		})

		r.Get("/busca", h.SearchClientes)
		r.Get("/ws/saldos", h.WSSaldos)
	})

	return router
}

func (h *Handler) WSSaldos(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
