package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// respondInvalid mirrors the shape the frontend expects for schema failures:
// a generic message plus one detail line per offending field.
func respondInvalid(w http.ResponseWriter, err error) {
	details := []string{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range errs {
			details = append(details, fmt.Sprintf("%s: %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Dados inválidos",
		"details": details,
	})
}
