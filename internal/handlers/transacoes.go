package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"fiado/internal/middleware"
	"fiado/internal/store"
	"fiado/internal/websocket"
)

type transacaoRequest struct {
	ClienteID   string          `json:"cliente_id" validate:"required,uuid"`
	Tipo        string          `json:"tipo" validate:"required,oneof=compra abate"`
	Valor       decimal.Decimal `json:"valor"`
	Dados       json.RawMessage `json:"dados"`
	Observacoes *string         `json:"observacoes" validate:"omitempty,max=500"`
}

// CreateTransacao appends one immutable ledger entry and pushes the client's
// recomputed balance to connected dashboards.
func (h *Handler) CreateTransacao(w http.ResponseWriter, r *http.Request) {
	var req transacaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondInvalid(w, err)
		return
	}
	if !req.Valor.IsPositive() {
		respondError(w, http.StatusBadRequest, "Valor deve ser positivo")
		return
	}

	session, _ := middleware.SessionFromContext(r.Context())
	input := store.TransacaoInput{
		ID:          uuid.NewString(),
		ClienteID:   req.ClienteID,
		Tipo:        req.Tipo,
		Valor:       req.Valor,
		Dados:       types.JSONText(req.Dados),
		Observacoes: req.Observacoes,
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.transacoes.Insert(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"tipo":  req.Tipo,
			"valor": req.Valor,
		})
		return h.audit.Log(r.Context(), tx, session.UserID, "registrar_transacao", "transacao", input.ID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}

	saldo := h.engine.Balance(r.Context(), req.ClienteID)
	h.hub.BroadcastSaldo(websocket.SaldoUpdate{ClienteID: req.ClienteID, Saldo: saldo.String()})

	respondJSON(w, http.StatusOK, map[string]any{
		"transacao": map[string]any{
			"id":          input.ID,
			"cliente_id":  input.ClienteID,
			"tipo":        input.Tipo,
			"valor":       input.Valor,
			"observacoes": input.Observacoes,
		},
		"saldo": saldo,
	})
}

// ListTransacoesCliente returns a client's history, optionally windowed by the
// de/ate query params (RFC3339 or YYYY-MM-DD). Feeds the receipt export.
func (h *Handler) ListTransacoesCliente(w http.ResponseWriter, r *http.Request) {
	clienteID := chi.URLParam(r, "id")
	if !validID(clienteID) {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	deRaw := r.URL.Query().Get("de")
	ateRaw := r.URL.Query().Get("ate")
	if deRaw == "" && ateRaw == "" {
		transacoes, err := h.transacoes.ListByClient(r.Context(), clienteID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, msgErroInterno)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"transacoes": transacoes})
		return
	}

	from, ok := parseDateParam(deRaw, false)
	if !ok {
		respondError(w, http.StatusBadRequest, "Período inválido")
		return
	}
	to, ok := parseDateParam(ateRaw, true)
	if !ok {
		respondError(w, http.StatusBadRequest, "Período inválido")
		return
	}
	transacoes, err := h.transacoes.ListByClientBetween(r.Context(), clienteID, from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transacoes": transacoes})
}

// parseDateParam accepts RFC3339 or a bare date. A bare "ate" date is pushed
// to the end of that day so the window is inclusive. Missing values fall back
// to the epoch / now.
func parseDateParam(raw string, endOfDay bool) (time.Time, bool) {
	if raw == "" {
		if endOfDay {
			return time.Now(), true
		}
		return time.Time{}, true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return parsed, true
}
