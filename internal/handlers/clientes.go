package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fiado/internal/ledger"
	"fiado/internal/models"
	"fiado/internal/store"
)

type clienteComSaldo struct {
	models.Cliente
	Saldo       decimal.Decimal `json:"saldo"`
	AcimaLimite bool            `json:"acima_limite"`
}

func (h *Handler) withSaldo(r *http.Request, cliente models.Cliente) clienteComSaldo {
	saldo := h.engine.Balance(r.Context(), cliente.ID)
	return clienteComSaldo{
		Cliente:     cliente,
		Saldo:       saldo,
		AcimaLimite: ledger.IsOverLimit(saldo, cliente.LimiteCredito),
	}
}

func (h *Handler) ListClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.clientes.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	comSaldo := make([]clienteComSaldo, 0, len(clientes))
	for _, cliente := range clientes {
		comSaldo = append(comSaldo, h.withSaldo(r, cliente))
	}
	respondJSON(w, http.StatusOK, map[string]any{"clientes": comSaldo})
}

type clienteRequest struct {
	Nome          string           `json:"nome" validate:"required,max=200"`
	Apelidos      []string         `json:"apelidos" validate:"omitempty,max=10,dive,max=100"`
	Telefone      *string          `json:"telefone" validate:"omitempty,max=20"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	FotoPath      *string          `json:"foto_path" validate:"omitempty,max=500"`
	DiaPagamento  *int             `json:"dia_pagamento" validate:"omitempty,min=1,max=31"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	Tags          []string         `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

func (h *Handler) CreateCliente(w http.ResponseWriter, r *http.Request) {
	var req clienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	normalizeEmptyString(&req.Email)
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	limite := decimal.Zero
	if req.LimiteCredito != nil {
		if req.LimiteCredito.IsNegative() {
			respondError(w, http.StatusBadRequest, "Limite de crédito não pode ser negativo")
			return
		}
		limite = *req.LimiteCredito
	}

	input := store.ClienteInput{
		ID:            uuid.NewString(),
		Nome:          req.Nome,
		Apelidos:      orEmptySlice(req.Apelidos),
		Telefone:      req.Telefone,
		Email:         req.Email,
		FotoPath:      req.FotoPath,
		DiaPagamento:  req.DiaPagamento,
		LimiteCredito: limite,
		Tags:          orEmptySlice(req.Tags),
	}
	if err := h.clientes.Create(r.Context(), input); err != nil {
		if isUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Cliente já cadastrado")
			return
		}
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	cliente, err := h.clientes.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cliente": cliente})
}

func (h *Handler) GetCliente(w http.ResponseWriter, r *http.Request) {
	clienteID := chi.URLParam(r, "id")
	if !validID(clienteID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	cliente, err := h.clientes.GetByID(r.Context(), clienteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Cliente não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	transacoes, err := h.transacoes.ListByClient(r.Context(), clienteID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cliente":    h.withSaldo(r, cliente),
		"transacoes": transacoes,
	})
}

type clienteUpdateRequest struct {
	Nome          *string          `json:"nome" validate:"omitempty,min=1,max=200"`
	Apelidos      []string         `json:"apelidos" validate:"omitempty,max=10,dive,max=100"`
	Telefone      *string          `json:"telefone" validate:"omitempty,max=20"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	FotoPath      *string          `json:"foto_path" validate:"omitempty,max=500"`
	DiaPagamento  *int             `json:"dia_pagamento" validate:"omitempty,min=1,max=31"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	Tags          []string         `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Status        *string          `json:"status" validate:"omitempty,oneof=ativo suspenso cancelado"`
}

func (h *Handler) UpdateCliente(w http.ResponseWriter, r *http.Request) {
	clienteID := chi.URLParam(r, "id")
	if !validID(clienteID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var req clienteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	normalizeEmptyString(&req.Email)
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	if req.LimiteCredito != nil && req.LimiteCredito.IsNegative() {
		respondError(w, http.StatusBadRequest, "Limite de crédito não pode ser negativo")
		return
	}

	rows, err := h.clientes.Update(r.Context(), clienteID, store.ClienteUpdate{
		Nome:          req.Nome,
		Apelidos:      req.Apelidos,
		Telefone:      req.Telefone,
		Email:         req.Email,
		FotoPath:      req.FotoPath,
		DiaPagamento:  req.DiaPagamento,
		LimiteCredito: req.LimiteCredito,
		Tags:          req.Tags,
		Status:        req.Status,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "Cliente não encontrado")
		return
	}
	cliente, err := h.clientes.GetByID(r.Context(), clienteID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cliente": cliente})
}

func (h *Handler) DeleteCliente(w http.ResponseWriter, r *http.Request) {
	clienteID := chi.URLParam(r, "id")
	if !validID(clienteID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.clientes.Delete(r.Context(), clienteID); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func normalizeEmptyString(value **string) {
	if *value != nil && **value == "" {
		*value = nil
	}
}

func orEmptySlice(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
