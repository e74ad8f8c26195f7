package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"delivermail/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError writes the uniform error body. Messages stay short and never
// include internal identifiers.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

// respondStoreErr maps storage sentinels onto the HTTP taxonomy. A row that
// exists but belongs to another account surfaces as the same 404 as a
// missing row.
func respondStoreErr(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusBadRequest, "duplicate value")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
