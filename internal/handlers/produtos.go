package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fiado/internal/store"
)

type produtoRequest struct {
	Nome      string           `json:"nome" validate:"required,max=200"`
	Preco     decimal.Decimal  `json:"preco"`
	Categoria *string          `json:"categoria" validate:"omitempty,max=100"`
	Ativo     *bool            `json:"ativo"`
	ValorTaxa *decimal.Decimal `json:"valor_taxa"`
}

func (req produtoRequest) toInput(id string) (store.ProdutoInput, string) {
	if req.Preco.IsNegative() {
		return store.ProdutoInput{}, "Preço não pode ser negativo"
	}
	input := store.ProdutoInput{
		ID:        id,
		Nome:      req.Nome,
		Preco:     req.Preco,
		Categoria: req.Categoria,
		Ativo:     true,
		ValorTaxa: decimal.Zero,
	}
	if req.Ativo != nil {
		input.Ativo = *req.Ativo
	}
	if req.ValorTaxa != nil {
		if req.ValorTaxa.IsNegative() {
			return store.ProdutoInput{}, "Taxa não pode ser negativa"
		}
		input.ValorTaxa = *req.ValorTaxa
	}
	return input, ""
}

func (h *Handler) ListProdutos(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.produtos.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"produtos": produtos})
}

func (h *Handler) CreateProduto(w http.ResponseWriter, r *http.Request) {
	var req produtoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	input, msg := req.toInput(uuid.NewString())
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.produtos.Create(r.Context(), input); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"produto": map[string]any{
		"id":         input.ID,
		"nome":       input.Nome,
		"preco":      input.Preco,
		"categoria":  input.Categoria,
		"ativo":      input.Ativo,
		"valor_taxa": input.ValorTaxa,
	}})
}

func (h *Handler) UpdateProduto(w http.ResponseWriter, r *http.Request) {
	produtoID := chi.URLParam(r, "id")
	if !validID(produtoID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var req produtoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	input, msg := req.toInput(produtoID)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	rows, err := h.produtos.Update(r.Context(), produtoID, input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) DeleteProduto(w http.ResponseWriter, r *http.Request) {
	produtoID := chi.URLParam(r, "id")
	if !validID(produtoID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.produtos.Delete(r.Context(), produtoID); err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
