package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiado/internal/config"
	"fiado/internal/db"
	"fiado/internal/handlers"
	"fiado/internal/ledger"
	"fiado/internal/ratelimit"
	"fiado/internal/services"
	"fiado/internal/store"
	"fiado/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	clientes := store.NewClienteStore(database)
	transacoes := store.NewTransacaoStore(database)
	produtos := store.NewProdutoStore(database)
	mesas := store.NewMesaStore(database)
	historico := store.NewMesaHistoricoStore(database)
	pix := store.NewCompraPixStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)

	engine := ledger.NewEngine(store.NewLedgerSource(transacoes))
	limiter := ratelimit.New()
	limiter.Start()
	defer limiter.Stop()
	hub := websocket.NewHub()
	finalizer := services.NewMesaService(txRunner, mesas, historico, transacoes, audit, engine, hub)

	handler := handlers.New(cfg, txRunner, users, clientes, transacoes, produtos, mesas, historico, pix, audit, engine, limiter, finalizer, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("fiado API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
