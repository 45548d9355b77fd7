package handler

import (
	"encoding/json"
	"net/http"

	"github.com/contractpro/contractpro/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperr.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case apperr.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
