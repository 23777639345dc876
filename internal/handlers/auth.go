package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"fiado/internal/auth"
	"fiado/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login throttles by normalized email before any credential check, so failed
// guesses against unknown accounts cost attempts too.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Email))
	result := h.limiter.Check(identifier)
	if !result.Allowed {
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":           result.Message,
			"cooldownSeconds": result.CooldownSeconds,
		})
		return
	}

	user, err := h.users.GetActiveByEmail(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondInvalidCredentials(w, result.RemainingAttempts)
			return
		}
		respondError(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondInvalidCredentials(w, result.RemainingAttempts)
		return
	}

	h.limiter.Reset(identifier)

	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		data, _ := json.Marshal(map[string]string{
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, user.ID, "login", "user", user.ID, string(data))
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}

	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.SessionTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}
	auth.SetSessionCookie(w, token, h.cfg.SessionTTL, h.cfg.SecureCookies())
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
			"nome":  user.Nome,
		},
	})
}

func respondInvalidCredentials(w http.ResponseWriter, remaining int) {
	respondJSON(w, http.StatusUnauthorized, map[string]any{
		"error":             "Email ou senha incorretos",
		"remainingAttempts": remaining,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cfg.SecureCookies())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}
	user, err := h.users.GetByID(r.Context(), session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Erro ao carregar usuário")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
