package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"delivermail/internal/ai"
	"delivermail/internal/auth"
	"delivermail/internal/models"
	"delivermail/internal/store"
)

func AiQuery(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			respondError(w, http.StatusBadRequest, "query is required")
			return
		}
		uid := auth.Subject(r.Context())
		q := models.AiQuery{UserID: &uid, Query: req.Query, Response: ai.Respond(req.Query)}
		if err := st.CreateAiQuery(&q); err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"response": q.Response, "queryId": q.ID})
	}
}

func RateAiQuery(st store.Storage, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req struct {
			Rating int `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Rating != 1 && req.Rating != 5 {
			respondError(w, http.StatusBadRequest, "rating must be 1 or 5")
			return
		}
		q, err := st.AiQueryByID(id)
		if err != nil {
			respondStoreErr(w, err, "Query not found")
			return
		}
		uid := auth.Subject(r.Context())
		if q.UserID == nil || *q.UserID != uid {
			respondError(w, http.StatusNotFound, "Query not found")
			return
		}
		q.Rating = &req.Rating
		if err := st.SaveAiQuery(q); err != nil {
			respondStoreErr(w, err, "Query not found")
			return
		}
		respondJSON(w, http.StatusOK, q)
	}
}
