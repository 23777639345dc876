package handlers

import (
	"net/http"
	"strings"
)

// SearchClientes answers the quick-lookup box. Blank queries short-circuit to
// an empty result instead of hitting the database.
func (h *Handler) SearchClientes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > 100 {
		respondError(w, http.StatusBadRequest, "Query inválida")
		return
	}
	if query == "" {
		respondJSON(w, http.StatusOK, map[string]any{"clientes": []struct{}{}})
		return
	}
	clientes, err := h.clientes.Search(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"clientes": clientes})
}
