package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/middleware"
	"fiado/internal/services"
	"fiado/internal/store"
)

type mesaRequest struct {
	Nome        string          `json:"nome" validate:"required,max=100"`
	Itens       json.RawMessage `json:"itens"`
	Observacoes *string         `json:"observacoes" validate:"omitempty,max=500"`
	Logs        json.RawMessage `json:"logs"`
}

func (h *Handler) ListMesas(w http.ResponseWriter, r *http.Request) {
	mesas, err := h.mesas.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"mesas": mesas})
}

func (h *Handler) CreateMesa(w http.ResponseWriter, r *http.Request) {
	var req mesaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	input := store.MesaInput{
		ID:          uuid.NewString(),
		Nome:        req.Nome,
		Itens:       types.JSONText(req.Itens),
		Observacoes: req.Observacoes,
		Logs:        types.JSONText(req.Logs),
	}
	if err := h.mesas.Create(r.Context(), input); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	mesa, err := h.mesas.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"mesa": mesa})
}

func (h *Handler) UpdateMesa(w http.ResponseWriter, r *http.Request) {
	mesaID := chi.URLParam(r, "id")
	if !validID(mesaID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var req mesaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	rows, err := h.mesas.Update(r.Context(), mesaID, store.MesaInput{
		Nome:        req.Nome,
		Itens:       types.JSONText(req.Itens),
		Observacoes: req.Observacoes,
		Logs:        types.JSONText(req.Logs),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "Mesa não encontrada")
		return
	}
	mesa, err := h.mesas.GetByID(r.Context(), mesaID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"mesa": mesa})
}

func (h *Handler) DeleteMesa(w http.ResponseWriter, r *http.Request) {
	mesaID := chi.URLParam(r, "id")
	if !validID(mesaID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.mesas.Delete(r.Context(), tx, mesaID)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type finalizarRequest struct {
	FormaPagamento string          `json:"forma_pagamento" validate:"required"`
	Total          decimal.Decimal `json:"total"`
	FoiFiado       bool            `json:"foi_fiado"`
	ClienteID      *string         `json:"cliente_id" validate:"omitempty,uuid"`
	ClienteNome    *string         `json:"cliente_nome" validate:"omitempty,max=200"`
}

// FinalizarMesa closes a table through MesaService and translates its domain
// errors to the API's Portuguese messages.
func (h *Handler) FinalizarMesa(w http.ResponseWriter, r *http.Request) {
	mesaID := chi.URLParam(r, "id")
	if !validID(mesaID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var req finalizarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}

	session, _ := middleware.SessionFromContext(r.Context())
	historicoID, err := h.finalizer.Finalize(r.Context(), services.FinalizeRequest{
		MesaID:         mesaID,
		ActorID:        session.UserID,
		FormaPagamento: req.FormaPagamento,
		Total:          req.Total,
		FoiFiado:       req.FoiFiado,
		ClienteID:      req.ClienteID,
		ClienteNome:    req.ClienteNome,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMesaNotFound):
			respondError(w, http.StatusNotFound, "Mesa não encontrada")
		case errors.Is(err, services.ErrInvalidTotal):
			respondError(w, http.StatusBadRequest, "Total deve ser positivo")
		case errors.Is(err, services.ErrClienteRequired):
			respondError(w, http.StatusBadRequest, "Cliente é obrigatório para fiado")
		case errors.Is(err, services.ErrInvalidPagamento):
			respondError(w, http.StatusBadRequest, "Forma de pagamento inválida")
		default:
			respondError(w, http.StatusInternalServerError, msgErroInterno)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"historico_id": historicoID,
	})
}

// ListMesasAnteriores prunes expired history before listing. A failed prune
// only logs: stale rows are better than an unavailable listing.
func (h *Handler) ListMesasAnteriores(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().AddDate(0, 0, -10)
	if err := h.historico.PurgeOlderThan(r.Context(), cutoff); err != nil {
		log.Printf("mesas_historico purge failed: %v", err)
	}
	historico, err := h.historico.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"mesas": historico})
}

type mesaHistoricoRequest struct {
	NomeMesa       string          `json:"nome_mesa" validate:"required,max=100"`
	DataAbertura   *time.Time      `json:"data_abertura"`
	DataFechamento *time.Time      `json:"data_fechamento"`
	Itens          json.RawMessage `json:"itens"`
	Total          decimal.Decimal `json:"total"`
	FormaPagamento string          `json:"forma_pagamento" validate:"required,oneof=dinheiro pix cartao fiado"`
	FoiFiado       bool            `json:"foi_fiado"`
	ClienteNome    *string         `json:"cliente_nome" validate:"omitempty,max=200"`
	Logs           json.RawMessage `json:"logs"`
}

func (h *Handler) CreateMesaHistorico(w http.ResponseWriter, r *http.Request) {
	var req mesaHistoricoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	fechamento := time.Now()
	if req.DataFechamento != nil {
		fechamento = *req.DataFechamento
	}
	input := store.MesaHistoricoInput{
		ID:             uuid.NewString(),
		NomeMesa:       req.NomeMesa,
		DataAbertura:   req.DataAbertura,
		DataFechamento: fechamento,
		Itens:          types.JSONText(req.Itens),
		Total:          req.Total,
		FormaPagamento: req.FormaPagamento,
		FoiFiado:       req.FoiFiado,
		ClienteNome:    req.ClienteNome,
		Logs:           types.JSONText(req.Logs),
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.historico.Insert(r.Context(), tx, input)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": input.ID})
}
