package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/store"
)

type compraPixRequest struct {
	NomeCliente string          `json:"nome_cliente" validate:"required,max=200"`
	Itens       json.RawMessage `json:"itens"`
	Total       decimal.Decimal `json:"total"`
}

type compraPixUpdateRequest struct {
	Pago      *bool   `json:"pago"`
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

func (h *Handler) ListComprasPix(w http.ResponseWriter, r *http.Request) {
	compras, err := h.pix.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"compras": compras})
}

func (h *Handler) CreateCompraPix(w http.ResponseWriter, r *http.Request) {
	var req compraPixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	if !req.Total.IsPositive() {
		respondError(w, http.StatusBadRequest, "Total deve ser positivo")
		return
	}
	input := store.CompraPixInput{
		ID:          uuid.NewString(),
		NomeCliente: req.NomeCliente,
		Itens:       types.JSONText(req.Itens),
		Total:       req.Total,
	}
	if err := h.pix.Create(r.Context(), input); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	compra, err := h.pix.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"compra": compra})
}

// UpdateCompraPix flips the payment flag or links the sale to a registered
// client; absent fields keep their stored value.
func (h *Handler) UpdateCompraPix(w http.ResponseWriter, r *http.Request) {
	compraID := chi.URLParam(r, "id")
	if !validID(compraID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var req compraPixUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	rows, err := h.pix.Update(r.Context(), compraID, store.CompraPixUpdate{
		Pago:      req.Pago,
		ClienteID: req.ClienteID,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "Compra não encontrada")
		return
	}
	compra, err := h.pix.GetByID(r.Context(), compraID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Compra não encontrada")
			return
		}
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"compra": compra})
}

func (h *Handler) DeleteCompraPix(w http.ResponseWriter, r *http.Request) {
	compraID := chi.URLParam(r, "id")
	if !validID(compraID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.pix.Delete(r.Context(), compraID); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
